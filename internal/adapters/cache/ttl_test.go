package cache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/scoring/internal/adapters/cache"
	. "github.com/smartystreets/goconvey/convey"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestTTLCache(t *testing.T) {
	Convey("Given a cache on a controlled clock", t, func() {
		clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		c := cache.New(cache.WithClock(clk.Now))

		Convey("A missing key is a miss", func() {
			_, ok := c.Get("nope")
			So(ok, ShouldBeFalse)
		})

		Convey("A live entry is served and kept", func() {
			c.Set("k", 3.5, time.Hour)
			clk.Advance(59 * time.Minute)
			v, ok := c.Get("k")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 3.5)
			So(c.Len(), ShouldEqual, 1)

			v, ok = c.Get("k")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 3.5)
		})

		Convey("An entry at its expiry instant is a miss and is dropped", func() {
			c.Set("k", 1.5, time.Hour)
			clk.Advance(time.Hour)
			_, ok := c.Get("k")
			So(ok, ShouldBeFalse)
			So(c.Len(), ShouldEqual, 0)
		})

		Convey("Expired entries stay until read", func() {
			c.Set("a", 1, time.Second)
			c.Set("b", 2, time.Hour)
			clk.Advance(time.Minute)
			So(c.Len(), ShouldEqual, 2)
			_, ok := c.Get("a")
			So(ok, ShouldBeFalse)
			So(c.Len(), ShouldEqual, 1)
		})

		Convey("Set overwrites and refreshes expiry", func() {
			c.Set("k", 1, time.Minute)
			clk.Advance(30 * time.Second)
			c.Set("k", 2, time.Minute)
			clk.Advance(45 * time.Second)
			v, ok := c.Get("k")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 2)
		})

		Convey("A non-positive ttl stores nothing", func() {
			c.Set("k", 1, 0)
			So(c.Len(), ShouldEqual, 0)
		})

		Convey("The scoring adapter methods delegate", func() {
			ctx := context.Background()
			c.CacheSet(ctx, "k", 4.5, time.Minute)
			v, ok := c.CacheGet(ctx, "k")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 4.5)
		})
	})

	Convey("Given concurrent readers and writers", t, func() {
		c := cache.New()
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					key := fmt.Sprintf("k%d", j%10)
					c.Set(key, float64(i), time.Minute)
					c.Get(key)
				}
			}(i)
		}
		wg.Wait()
		So(c.Len(), ShouldEqual, 10)
	})

	Convey("Given a cache with a metrics updater", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		c := cache.New(cache.WithMetricsUpdateInterval(time.Millisecond))
		c.StartMetricsUpdater(ctx)
		c.Set("k", 1, time.Minute)
		time.Sleep(5 * time.Millisecond)

		Convey("Close stops it and is idempotent", func() {
			So(c.Close(), ShouldBeNil)
			So(c.Close(), ShouldBeNil)
		})
	})
}
