package injuries

import (
	"context"
	"log"
	"time"

	"github.com/fortuna/courtvision/internal/cache"
)

const keyReport = "injuries:report"

// TeamMapFunc supplies the canonical player name -> team abbreviation map
// the matcher resolves against.
type TeamMapFunc func(ctx context.Context) map[string]string

// Service scrapes the injury page and resolves names, caching the result.
// Any failure yields an empty map; the report is approximate by nature.
type Service struct {
	client  *Client
	cache   *cache.RedisCache
	ttl     time.Duration
	teamMap TeamMapFunc
}

// NewService creates an injury service.
func NewService(client *Client, redisCache *cache.RedisCache, ttl time.Duration, teamMap TeamMapFunc) *Service {
	return &Service{
		client:  client,
		cache:   redisCache,
		ttl:     ttl,
		teamMap: teamMap,
	}
}

// Report returns player name -> "STATUS (TEAM)", cached for the TTL.
// Empty on any scrape or parse failure.
func (s *Service) Report(ctx context.Context) map[string]string {
	var report map[string]string
	if err := s.cache.GetJSON(ctx, keyReport, &report); err == nil {
		return report
	}

	doc, err := s.client.FetchDocument(ctx)
	if err != nil {
		log.Printf("[injuries] fetch failed: %v", err)
		return map[string]string{}
	}

	entries, err := ParseEntries(doc)
	if err != nil {
		log.Printf("[injuries] parse failed: %v", err)
		return map[string]string{}
	}

	matcher := NewMatcher(s.teamMap(ctx))
	report = matcher.BuildReport(entries)

	if err := s.cache.SetJSON(ctx, keyReport, report, s.ttl); err != nil {
		log.Printf("[injuries] cache write failed: %v", err)
	}
	return report
}
