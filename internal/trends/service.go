package trends

import (
	"context"
	"log"
	"time"

	"github.com/fortuna/courtvision/internal/cache"
	"github.com/fortuna/courtvision/internal/config"
	"github.com/fortuna/courtvision/internal/nba"
)

// Cache keys, all under the service prefix.
const (
	keyTeamMap   = "nba:team_map"
	keyDefense   = "nba:defense"
	keyOpponents = "nba:opponents"
	keyReport    = "trends:report"
)

// Warnings surfaced on the dashboard when a source is unavailable.
const (
	WarnStatsMissing    = "Scoring Data Missing"
	WarnDefenseMissing  = "Defense Data Missing"
	WarnScheduleMissing = "Schedule Data Missing"
)

// Service produces the trend report from the stats API, caching every source
// for its own TTL. Fetch failures never propagate past this layer: the
// report degrades to fewer rows, "No Game" matchups, or an empty table with
// warnings, in that order of severity.
type Service struct {
	client *nba.Client
	cache  *cache.RedisCache
	cfg    config.NBA
	now    func() time.Time
}

// NewService creates a trend service.
func NewService(client *nba.Client, redisCache *cache.RedisCache, cfg config.NBA) *Service {
	return &Service{
		client: client,
		cache:  redisCache,
		cfg:    cfg,
		now:    time.Now,
	}
}

// TeamMap returns the canonical map of player display name -> team
// abbreviation, refetched per cache window. Empty on failure.
func (s *Service) TeamMap(ctx context.Context) map[string]string {
	var teamMap map[string]string
	if err := s.cache.GetJSON(ctx, keyTeamMap, &teamMap); err == nil {
		return teamMap
	}

	players, err := s.client.CommonAllPlayers(ctx, s.cfg.Season)
	if err != nil {
		log.Printf("[trends] team map fetch failed: %v", err)
		return map[string]string{}
	}

	teamMap = make(map[string]string, len(players))
	for _, p := range players {
		teamMap[p.Name] = p.TeamAbbreviation
	}

	if err := s.cache.SetJSON(ctx, keyTeamMap, teamMap, s.cfg.TeamMapTTL); err != nil {
		log.Printf("[trends] team map cache write failed: %v", err)
	}
	return teamMap
}

// DefensiveRatings returns team id -> defensive rating row, recomputed
// daily. Empty on failure.
func (s *Service) DefensiveRatings(ctx context.Context) map[string]nba.TeamDefense {
	var defense map[string]nba.TeamDefense
	if err := s.cache.GetJSON(ctx, keyDefense, &defense); err == nil {
		return defense
	}

	teams, err := s.client.LeagueDashTeamStats(ctx, s.cfg.Season)
	if err != nil {
		log.Printf("[trends] defensive ratings fetch failed: %v", err)
		return map[string]nba.TeamDefense{}
	}

	defense = make(map[string]nba.TeamDefense, len(teams))
	for _, t := range teams {
		defense[t.TeamID] = t
	}

	if err := s.cache.SetJSON(ctx, keyDefense, defense, s.cfg.DefenseTTL); err != nil {
		log.Printf("[trends] defensive ratings cache write failed: %v", err)
	}
	return defense
}

// TodaysOpponents returns team id -> opponent team id for the current day
// window. Empty on failure or when no games are scheduled.
func (s *Service) TodaysOpponents(ctx context.Context) map[string]string {
	var opponents map[string]string
	if err := s.cache.GetJSON(ctx, keyOpponents, &opponents); err == nil {
		return opponents
	}

	opponents, err := s.client.TodaysOpponents(ctx, s.now())
	if err != nil {
		log.Printf("[trends] scoreboard fetch failed: %v", err)
		return map[string]string{}
	}

	if err := s.cache.SetJSON(ctx, keyOpponents, opponents, s.cfg.GamesTTL); err != nil {
		log.Printf("[trends] opponents cache write failed: %v", err)
	}
	return opponents
}

// Report returns the cached trend report, recomputing it when the cache
// window has passed.
func (s *Service) Report(ctx context.Context) Report {
	var report Report
	if err := s.cache.GetJSON(ctx, keyReport, &report); err == nil {
		return report
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the trend report, caches it, and returns it. The
// scoring tables failing yields the empty report; defense or schedule
// failing degrades labels and attaches a warning. Failures are cached for
// the same window so a broken upstream is not hammered on every page load.
func (s *Service) Refresh(ctx context.Context) Report {
	report := s.build(ctx)
	if err := s.cache.SetJSON(ctx, keyReport, report, s.cfg.TrendsTTL); err != nil {
		log.Printf("[trends] report cache write failed: %v", err)
	}
	return report
}

func (s *Service) build(ctx context.Context) Report {
	season, err := s.client.LeagueDashPlayerStats(ctx, s.cfg.Season, 0)
	if err != nil {
		log.Printf("[trends] season stats fetch failed: %v", err)
		return EmptyReport(WarnStatsMissing)
	}

	last5, err := s.client.LeagueDashPlayerStats(ctx, s.cfg.Season, 5)
	if err != nil {
		log.Printf("[trends] last-5 stats fetch failed: %v", err)
		return EmptyReport(WarnStatsMissing)
	}

	opponents := s.TodaysOpponents(ctx)
	defense := s.DefensiveRatings(ctx)

	report := Compute(season, last5, opponents, defense)
	if len(opponents) == 0 {
		report.Warnings = append(report.Warnings, WarnScheduleMissing)
	}
	if len(defense) == 0 {
		report.Warnings = append(report.Warnings, WarnDefenseMissing)
	}
	return report
}
