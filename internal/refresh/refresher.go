package refresh

import (
	"context"
	"log"
	"time"

	"github.com/fortuna/courtvision/internal/config"
	"github.com/fortuna/courtvision/internal/publisher"
	"github.com/fortuna/courtvision/internal/store"
	"github.com/fortuna/courtvision/internal/trends"
)

// Refresher keeps the trend report warm so page loads hit the cache, and
// refreshes the daily reference data (team map, defensive ratings) off-peak.
type Refresher struct {
	trends    *trends.Service
	publisher *publisher.RedisStreamPublisher
	archive   *store.SnapshotRepository // nil when archiving is disabled
	cfg       config.Refresh

	cancel context.CancelFunc
}

// NewRefresher creates a refresher.
func NewRefresher(trendSvc *trends.Service, pub *publisher.RedisStreamPublisher, archive *store.SnapshotRepository, cfg config.Refresh) *Refresher {
	return &Refresher{
		trends:    trendSvc,
		publisher: pub,
		archive:   archive,
		cfg:       cfg,
	}
}

// Start begins the refresh loops and blocks until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	log.Printf("→ Refresher started (trend interval: %v, daily refresh at %02d:00)",
		r.cfg.TrendInterval, r.cfg.DailyHour)

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	go r.runTrendWarm(ctx)
	go r.runDailyRefresh(ctx)

	<-ctx.Done()
	log.Println("→ Refresher stopped")
}

// Stop cancels the refresh loops.
func (r *Refresher) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

// runTrendWarm recomputes the trend report on a fixed interval.
func (r *Refresher) runTrendWarm(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.TrendInterval)
	defer ticker.Stop()

	// Warm immediately on start
	r.warmOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.warmOnce(ctx)
		}
	}
}

func (r *Refresher) warmOnce(ctx context.Context) {
	start := time.Now()
	report := r.trends.Refresh(ctx)
	log.Printf("  ✓ Trend report refreshed: %d rows, %d warnings (%v)",
		len(report.Rows), len(report.Warnings), time.Since(start).Round(time.Millisecond))

	if err := r.publisher.Publish(ctx, publisher.EventReportRefreshed, map[string]interface{}{
		"rows":         len(report.Rows),
		"warnings":     report.Warnings,
		"generated_at": report.GeneratedAt,
	}); err != nil {
		log.Printf("  ⚠️  Failed to publish refresh event: %v", err)
	}

	// Empty reports are upstream hiccups; archiving them tells no story.
	if r.archive != nil && len(report.Rows) > 0 {
		if err := r.archive.SaveSnapshot(ctx, report); err != nil {
			log.Printf("  ⚠️  Failed to archive snapshot: %v", err)
		}
	}
}

// runDailyRefresh refetches the slow-moving reference data once a day.
func (r *Refresher) runDailyRefresh(ctx context.Context) {
	for {
		now := time.Now()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), r.cfg.DailyHour, 0, 0, 0, now.Location())
		if now.After(nextRun) {
			nextRun = nextRun.Add(24 * time.Hour)
		}

		waitDuration := time.Until(nextRun)
		log.Printf("  Next daily reference refresh: %s (in %v)",
			nextRun.Format("2006-01-02 15:04:05"), waitDuration.Round(time.Second))

		select {
		case <-ctx.Done():
			return
		case <-time.After(waitDuration):
			log.Println("═══ Daily Reference Refresh ═══")
			// Warming right after the TTLs lapse keeps the first morning
			// page load from paying for three upstream fetches.
			r.trends.TeamMap(ctx)
			r.trends.DefensiveRatings(ctx)
			r.trends.TodaysOpponents(ctx)
			log.Println("═══ Daily Reference Refresh Complete ═══")
		}
	}
}
