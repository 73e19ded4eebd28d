package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/okian/scoring/internal/config"
	"github.com/okian/scoring/pkg/logger"
	"github.com/okian/scoring/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("SCORING_ADDR", ":18080")
			_ = os.Setenv("SCORING_SCORE_TTL_SECONDS", "120")
			defer func() {
				_ = os.Unsetenv("SCORING_ADDR")
				_ = os.Unsetenv("SCORING_SCORE_TTL_SECONDS")
			}()

			cfg, err := config.Load(context.Background())

			convey.Convey("Then configuration should be loadable", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":18080")
				convey.So(cfg.ScoreTTLSeconds, convey.ShouldEqual, 120)
			})

			convey.Convey("And the service reflects it", func() {
				svc := newService(cfg, logger.Get())
				stats := svc.GetStats()
				convey.So(stats["scoreTTLSeconds"], convey.ShouldEqual, 120)
				convey.So(stats["started"], convey.ShouldBeFalse)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			srv := newHTTPServer(":0", http.NotFoundHandler())

			convey.Convey("Then HTTP server should carry the timeouts", func() {
				convey.So(srv.Addr, convey.ShouldEqual, ":0")
				convey.So(srv.ReadTimeout, convey.ShouldEqual, readTimeout)
				convey.So(srv.WriteTimeout, convey.ShouldEqual, writeTimeout)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a started service behind the router", t, func() {
		ctx := context.Background()
		svc := newService(config.New(), logger.Get())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		ts := httptest.NewServer(newRouter(ctx, svc, logger.Get()))
		defer ts.Close()

		get := func(path string) (int, string) {
			resp, err := http.Get(ts.URL + path)
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			b, _ := io.ReadAll(resp.Body)
			return resp.StatusCode, string(b)
		}

		convey.Convey("Then health, stats, docs and metrics are served", func() {
			code, _ := get("/healthz")
			convey.So(code, convey.ShouldEqual, http.StatusOK)

			code, body := get("/stats")
			convey.So(code, convey.ShouldEqual, http.StatusOK)
			convey.So(body, convey.ShouldContainSubstring, `"backend":"memory"`)

			code, body = get("/openapi.yaml")
			convey.So(code, convey.ShouldEqual, http.StatusOK)
			convey.So(body, convey.ShouldContainSubstring, "Scoring API")

			code, _ = get("/api-docs")
			convey.So(code, convey.ShouldEqual, http.StatusOK)

			code, _ = get("/metrics")
			convey.So(code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("And a malformed method call is a 400 envelope", func() {
			resp, err := http.Post(ts.URL+"/method", "application/json", strings.NewReader("nope"))
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the system metrics updater runs on a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			convey.Convey("Then it returns", func() {
				done := make(chan struct{})
				go func() {
					startSystemMetricsUpdater(ctx)
					close(done)
				}()
				<-done
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
				convey.So(metrics.GetRegistry(), convey.ShouldNotBeNil)
			})
		})
	})
}
