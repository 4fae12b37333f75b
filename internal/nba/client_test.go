package nba

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRowCoercion(t *testing.T) {
	rs := resultSet{
		Headers: []string{"PERSON_ID", "DISPLAY_FIRST_LAST", "TEAM_ID", "PTS"},
		RowSet: [][]interface{}{
			{float64(2544), "LeBron James", float64(1610612747), 24.5},
			{float64(8), nil, nil, "12.5"},
		},
	}

	rows := rs.rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if got := rows[0].int("PERSON_ID"); got != 2544 {
		t.Errorf("PERSON_ID = %d, want 2544", got)
	}
	if got := rows[0].str("DISPLAY_FIRST_LAST"); got != "LeBron James" {
		t.Errorf("name = %q, want LeBron James", got)
	}
	if got := rows[0].str("TEAM_ID"); got != "1610612747" {
		t.Errorf("TEAM_ID = %q, want string form without exponent", got)
	}
	if got := rows[1].str("DISPLAY_FIRST_LAST"); got != "" {
		t.Errorf("null name = %q, want empty", got)
	}
	if got := rows[1].float("PTS"); got != 12.5 {
		t.Errorf("string PTS = %v, want 12.5", got)
	}
	if got := rows[0].float("MISSING"); got != 0 {
		t.Errorf("missing header = %v, want 0", got)
	}
}

func TestFindResultSetByName(t *testing.T) {
	resp := response{ResultSets: []resultSet{
		{Name: "SeriesStandings"},
		{Name: "GameHeader"},
	}}

	rs, err := resp.findResultSet("GameHeader")
	if err != nil {
		t.Fatalf("findResultSet: %v", err)
	}
	if rs.Name != "GameHeader" {
		t.Errorf("got %q, want GameHeader", rs.Name)
	}

	if _, err := resp.findResultSet("BoxScore"); err == nil {
		t.Error("expected error for unknown result set")
	}
}

func newTestServer(t *testing.T, payload response) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Referer") == "" {
			t.Error("request missing Referer header")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
}

func TestTodaysOpponentsSymmetric(t *testing.T) {
	srv := newTestServer(t, response{ResultSets: []resultSet{{
		Name:    "GameHeader",
		Headers: []string{"GAME_ID", "HOME_TEAM_ID", "VISITOR_TEAM_ID"},
		RowSet: [][]interface{}{
			{"0022500001", float64(1610612738), float64(1610612752)},
			{"0022500002", float64(1610612747), float64(1610612744)},
		},
	}}})
	defer srv.Close()

	client := NewClient(srv.URL, 600)
	opponents, err := client.TodaysOpponents(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("TodaysOpponents: %v", err)
	}

	if len(opponents) != 4 {
		t.Fatalf("expected 4 entries (2 games), got %d", len(opponents))
	}
	if opponents["1610612738"] != "1610612752" {
		t.Errorf("home -> visitor mapping wrong: %q", opponents["1610612738"])
	}
	if opponents["1610612752"] != "1610612738" {
		t.Errorf("visitor -> home mapping wrong: %q", opponents["1610612752"])
	}
}

func TestLeagueDashPlayerStats(t *testing.T) {
	srv := newTestServer(t, response{ResultSets: []resultSet{{
		Name:    "LeagueDashPlayerStats",
		Headers: []string{"PLAYER_ID", "PLAYER_NAME", "TEAM_ID", "TEAM_ABBREVIATION", "GP", "PTS"},
		RowSet: [][]interface{}{
			{float64(2544), "LeBron James", float64(1610612747), "LAL", float64(20), 24.5},
			{float64(0), "", nil, "", float64(0), float64(0)}, // junk row dropped
		},
	}}})
	defer srv.Close()

	client := NewClient(srv.URL, 600)
	lines, err := client.LeagueDashPlayerStats(context.Background(), "2025-26", 5)
	if err != nil {
		t.Fatalf("LeagueDashPlayerStats: %v", err)
	}

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	got := lines[0]
	if got.PlayerID != 2544 || got.Name != "LeBron James" || got.Points != 24.5 || got.GamesPlayed != 20 {
		t.Errorf("unexpected line: %+v", got)
	}
	if got.TeamID != "1610612747" {
		t.Errorf("TeamID = %q, want 1610612747", got.TeamID)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(response{ResultSets: []resultSet{{
			Name:    "LeagueDashTeamStats",
			Headers: []string{"TEAM_ID", "TEAM_NAME", "DEF_RATING"},
			RowSet:  [][]interface{}{{float64(1610612738), "Boston Celtics", 110.2}},
		}}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 600)
	teams, err := client.LeagueDashTeamStats(context.Background(), "2025-26")
	if err != nil {
		t.Fatalf("LeagueDashTeamStats after retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if len(teams) != 1 || teams[0].DefensiveRating != 110.2 {
		t.Errorf("unexpected teams: %+v", teams)
	}
}

func TestClientRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 600)
	if _, err := client.CommonAllPlayers(context.Background(), "2025-26"); err == nil {
		t.Error("expected error on 403")
	}
}
