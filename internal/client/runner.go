package client

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/scoring/pkg/logger"
)

// Stats summarises a load run.
type Stats struct {
	Requests  int
	Failed    int // transport or decoding failures
	ByCode    map[int]int
	StartTime time.Time
	Duration  time.Duration
}

// Codes returns the observed codes in ascending order.
func (s *Stats) Codes() []int {
	codes := make([]int, 0, len(s.ByCode))
	for c := range s.ByCode {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	return codes
}

// RequestsPerSecond is the achieved throughput.
func (s *Stats) RequestsPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Requests) / s.Duration.Seconds()
}

// Load fires cfg.Requests calls from cfg.Workers goroutines.
func Load(ctx context.Context, c *Client, cfg LoadConfig) (*Stats, error) {
	if cfg.Requests <= 0 {
		return nil, ErrNoRequests
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	log := logger.Named("load")
	log.Info(ctx, "starting load",
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.String("method", cfg.Method))

	stats := &Stats{ByCode: map[int]int{}, StartTime: time.Now()}
	var (
		mu     sync.Mutex
		failed atomic.Int64
		sent   atomic.Int64
	)

	jobs := make(chan int, cfg.Workers*workerMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				reply, err := callOne(ctx, c, cfg, n)
				sent.Add(1)
				if err != nil {
					failed.Add(1)
					log.Debug(ctx, "call failed", logger.Error(err))
					continue
				}
				mu.Lock()
				stats.ByCode[reply.Code]++
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(jobs)
		for n := 0; n < cfg.Requests; n++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- n:
			}
		}
	}()

	wg.Wait()

	stats.Requests = int(sent.Load())
	stats.Failed = int(failed.Load())
	stats.Duration = time.Since(stats.StartTime)

	log.Info(ctx, "load completed",
		logger.Int("sent", stats.Requests),
		logger.Int("failed", stats.Failed),
		logger.Float64("rps", stats.RequestsPerSecond()))
	return stats, ctx.Err()
}

func callOne(ctx context.Context, c *Client, cfg LoadConfig, n int) (*Reply, error) {
	method := cfg.Method
	if method == "" {
		method = "online_score"
		if n%2 == 1 {
			method = "clients_interests"
		}
	}
	if method == "clients_interests" {
		_, reply, err := c.Interests(ctx, RandomClientIDs(cfg.MaxID), "")
		return replyOrErr(reply, err)
	}
	_, reply, err := c.Score(ctx, RandomScoreArgs(c.now()))
	return replyOrErr(reply, err)
}

// replyOrErr keeps method failures as replies so they are counted by code.
func replyOrErr(reply *Reply, err error) (*Reply, error) {
	if reply != nil {
		return reply, nil
	}
	return nil, err
}
