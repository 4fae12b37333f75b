package trends

import (
	"fmt"
	"sort"
	"time"

	"github.com/fortuna/courtvision/internal/nba"
)

// Status labels, thresholded on Delta. Boundaries are inclusive.
const (
	StatusSuperHot    = "Super Hot"
	StatusHeatingUp   = "Heating Up"
	StatusSteady      = "Steady"
	StatusCoolingDown = "Cooling Down"
	StatusIceCold     = "Ice Cold"
)

// Matchup difficulty bands over the opponent's defensive rating.
const (
	MatchupSoft    = "Soft"
	MatchupTough   = "Tough"
	MatchupAverage = "Average"
	MatchupNoGame  = "No Game"
)

// Delta thresholds for the status label.
const (
	superHotDelta    = 4.0
	heatingUpDelta   = 2.0
	iceColdDelta     = -3.0
	coolingDownDelta = -1.5
)

// Defensive rating bands for the matchup label.
const (
	softDefenseRating  = 116.0
	toughDefenseRating = 112.0
)

// minLast5Games is the smallest trailing-window sample treated as a trend.
const minLast5Games = 3

// Columns is the fixed column set of the report. It is preserved even when
// every upstream fetch fails and the report is empty.
var Columns = []string{"Player", "Matchup", "Season PPG", "Last 5 PPG", "Trend (Delta)", "Status"}

// Row is one player's scoring trend.
type Row struct {
	PlayerID  int     `json:"player_id"`
	Player    string  `json:"player"`
	Matchup   string  `json:"matchup"`
	SeasonPPG float64 `json:"season_ppg"`
	Last5PPG  float64 `json:"last5_ppg"`
	Delta     float64 `json:"delta"`
	Status    string  `json:"status"`
}

// Report is the trend table plus everything the dashboard needs to render a
// degraded state. A failed upstream fetch yields an empty Rows slice with the
// full column set and a warning naming what is missing, never an error.
type Report struct {
	Columns     []string  `json:"columns"`
	Rows        []Row     `json:"rows"`
	GeneratedAt time.Time `json:"generated_at"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// EmptyReport returns a report with no rows, the fixed column set, and the
// given warnings.
func EmptyReport(warnings ...string) Report {
	return Report{
		Columns:     Columns,
		Rows:        []Row{},
		GeneratedAt: time.Now().UTC(),
		Warnings:    warnings,
	}
}

// Compute joins season and trailing-5-game scoring, derives the delta and
// labels, and returns the table sorted non-increasing by delta.
//
// Pure: all inputs are supplied; defense maps team id -> defensive rating
// holder, opponents maps team id -> opponent team id for today only.
func Compute(season, last5 []nba.PlayerStatLine, opponents map[string]string, defense map[string]nba.TeamDefense) Report {
	seasonByID := make(map[int]nba.PlayerStatLine, len(season))
	for _, line := range season {
		seasonByID[line.PlayerID] = line
	}

	rows := make([]Row, 0, len(last5))
	for _, recent := range last5 {
		if recent.GamesPlayed < minLast5Games {
			continue
		}
		seasonLine, ok := seasonByID[recent.PlayerID]
		if !ok {
			continue
		}

		delta := recent.Points - seasonLine.Points
		rows = append(rows, Row{
			PlayerID:  recent.PlayerID,
			Player:    recent.Name,
			Matchup:   matchupLabel(recent.TeamID, opponents, defense),
			SeasonPPG: seasonLine.Points,
			Last5PPG:  recent.Points,
			Delta:     delta,
			Status:    statusLabel(delta),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Delta > rows[j].Delta
	})

	return Report{
		Columns:     Columns,
		Rows:        rows,
		GeneratedAt: time.Now().UTC(),
	}
}

// matchupLabel looks up the player's opponent for today and buckets the
// opponent's defensive rating. No game today beats everything else,
// regardless of what defensive data is available.
func matchupLabel(teamID string, opponents map[string]string, defense map[string]nba.TeamDefense) string {
	opponentID, playing := opponents[teamID]
	if !playing {
		return MatchupNoGame
	}

	opp, ok := defense[opponentID]
	if !ok {
		return MatchupAverage
	}

	band := MatchupAverage
	switch {
	case opp.DefensiveRating > softDefenseRating:
		band = MatchupSoft
	case opp.DefensiveRating < toughDefenseRating:
		band = MatchupTough
	}
	return fmt.Sprintf("%s vs %s", band, opp.TeamName)
}

func statusLabel(delta float64) string {
	switch {
	case delta >= superHotDelta:
		return StatusSuperHot
	case delta >= heatingUpDelta:
		return StatusHeatingUp
	case delta <= iceColdDelta:
		return StatusIceCold
	case delta <= coolingDownDelta:
		return StatusCoolingDown
	default:
		return StatusSteady
	}
}
