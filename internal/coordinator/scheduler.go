package coordinator

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs a callback periodically.
type Scheduler interface {
	// Every calls fn once per interval until ctx is done or stop is called.
	// Calls never overlap.
	Every(ctx context.Context, interval time.Duration, fn func(context.Context)) (stop func())
}

// TickerScheduler implements Scheduler with a time.Ticker per registration.
type TickerScheduler struct{}

// Every implements Scheduler.
func (TickerScheduler) Every(ctx context.Context, interval time.Duration, fn func(context.Context)) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
