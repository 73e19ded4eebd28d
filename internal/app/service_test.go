package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/scoring/internal/app"
	"github.com/okian/scoring/internal/adapters/repository"
	"github.com/okian/scoring/internal/domain/model"
	"github.com/okian/scoring/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// downBackend is never reachable.
type downBackend struct {
	*repository.MemoryBackend
}

func (downBackend) Ping(context.Context) error { return errors.New("connection refused") }

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should not be started", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["scoreTTLSeconds"], ShouldEqual, 3600)
			So(svc.Store(), ShouldBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithScoreTTL(time.Minute),
			service.WithStrictInterests(true),
			service.WithSalts("pepper", "7"),
			service.WithAdminLogin("root"),
		)

		Convey("Then the options are reflected in stats", func() {
			stats := svc.GetStats()
			So(stats["scoreTTLSeconds"], ShouldEqual, 60)
			So(stats["strictInterests"], ShouldEqual, true)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				So(svc.Ping(ctx), ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["backend"], ShouldEqual, "memory")
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given an unreachable backend", t, func() {
		svc := service.New(
			service.WithBackend(downBackend{repository.NewMemoryBackend()}),
		)

		Convey("Start fails with the store error", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, repository.ErrStoreUnavailable), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given an unknown backend kind", t, func() {
		svc := service.New(service.WithBackendConfig(repository.BackendConfig{Kind: "tarantool"}))

		Convey("Start fails", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, repository.ErrUnknownBackend), ShouldBeTrue)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})

			Convey("And requests fail with an internal error", func() {
				res := svc.Handle(ctx, model.NewObject(), &model.Context{})
				So(res.Code, ShouldEqual, model.StatusInternalError)
				So(errors.Is(svc.Ping(ctx), service.ErrNotStarted), ShouldBeTrue)
			})

			Convey("And stopping again is safe", func() {
				So(svc.Stop, ShouldNotPanic)
			})
		})
	})
}
