package nba

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Player is one row of the current-season roster.
type Player struct {
	PlayerID         int    `json:"player_id"`
	Name             string `json:"name"`
	TeamID           string `json:"team_id"`
	TeamAbbreviation string `json:"team_abbreviation"`
}

// PlayerStatLine is one per-game scoring line from leaguedashplayerstats.
type PlayerStatLine struct {
	PlayerID         int     `json:"player_id"`
	Name             string  `json:"name"`
	TeamID           string  `json:"team_id"`
	TeamAbbreviation string  `json:"team_abbreviation"`
	GamesPlayed      int     `json:"games_played"`
	Points           float64 `json:"points"`
}

// TeamDefense is one team's defensive rating. Lower is better defense.
type TeamDefense struct {
	TeamID          string  `json:"team_id"`
	TeamName        string  `json:"team_name"`
	DefensiveRating float64 `json:"defensive_rating"`
}

// CommonAllPlayers fetches the full current-season roster, the source of
// canonical player names and the team map.
func (c *Client) CommonAllPlayers(ctx context.Context, season string) ([]Player, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", season)
	params.Set("IsOnlyCurrentSeason", "1")

	resp, err := c.get(ctx, "commonallplayers", params)
	if err != nil {
		return nil, err
	}

	rs, err := resp.findResultSet("CommonAllPlayers")
	if err != nil {
		return nil, err
	}

	var players []Player
	for _, r := range rs.rows() {
		p := Player{
			PlayerID:         r.int("PERSON_ID"),
			Name:             r.str("DISPLAY_FIRST_LAST"),
			TeamID:           r.str("TEAM_ID"),
			TeamAbbreviation: r.str("TEAM_ABBREVIATION"),
		}
		if p.Name == "" {
			continue
		}
		players = append(players, p)
	}
	return players, nil
}

// LeagueDashPlayerStats fetches per-game scoring for every player. When
// lastNGames > 0 the window is restricted to the trailing N games.
func (c *Client) LeagueDashPlayerStats(ctx context.Context, season string, lastNGames int) ([]PlayerStatLine, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")
	params.Set("MeasureType", "Base")
	params.Set("PerMode", "PerGame")
	params.Set("LastNGames", fmt.Sprintf("%d", lastNGames))

	resp, err := c.get(ctx, "leaguedashplayerstats", params)
	if err != nil {
		return nil, err
	}

	rs, err := resp.findResultSet("LeagueDashPlayerStats")
	if err != nil {
		return nil, err
	}

	var lines []PlayerStatLine
	for _, r := range rs.rows() {
		line := PlayerStatLine{
			PlayerID:         r.int("PLAYER_ID"),
			Name:             r.str("PLAYER_NAME"),
			TeamID:           r.str("TEAM_ID"),
			TeamAbbreviation: r.str("TEAM_ABBREVIATION"),
			GamesPlayed:      r.int("GP"),
			Points:           r.float("PTS"),
		}
		if line.PlayerID == 0 {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// LeagueDashTeamStats fetches the advanced team stats table, one row per
// team, carrying DEF_RATING.
func (c *Client) LeagueDashTeamStats(ctx context.Context, season string) ([]TeamDefense, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")
	params.Set("MeasureType", "Advanced")
	params.Set("PerMode", "PerGame")

	resp, err := c.get(ctx, "leaguedashteamstats", params)
	if err != nil {
		return nil, err
	}

	rs, err := resp.findResultSet("LeagueDashTeamStats")
	if err != nil {
		return nil, err
	}

	var teams []TeamDefense
	for _, r := range rs.rows() {
		t := TeamDefense{
			TeamID:          r.str("TEAM_ID"),
			TeamName:        r.str("TEAM_NAME"),
			DefensiveRating: r.float("DEF_RATING"),
		}
		if t.TeamID == "" {
			continue
		}
		teams = append(teams, t)
	}
	return teams, nil
}

// TodaysOpponents fetches the scoreboard for date and returns the symmetric
// opponent adjacency: team id -> opponent team id, covering exactly the
// teams playing that day.
func (c *Client) TodaysOpponents(ctx context.Context, date time.Time) (map[string]string, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("DayOffset", "0")
	params.Set("GameDate", date.Format("01/02/2006"))

	resp, err := c.get(ctx, "scoreboardv2", params)
	if err != nil {
		return nil, err
	}

	rs, err := resp.findResultSet("GameHeader")
	if err != nil {
		return nil, err
	}

	opponents := make(map[string]string)
	for _, r := range rs.rows() {
		homeID := r.str("HOME_TEAM_ID")
		visitorID := r.str("VISITOR_TEAM_ID")
		if homeID == "" || visitorID == "" {
			continue
		}
		opponents[homeID] = visitorID
		opponents[visitorID] = homeID
	}
	return opponents, nil
}
