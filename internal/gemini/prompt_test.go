package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fortuna/courtvision/internal/trends"
)

func TestBuildPromptContainsContext(t *testing.T) {
	report := trends.Report{
		Columns: trends.Columns,
		Rows: []trends.Row{
			{Player: "LeBron James", Matchup: "Soft vs Washington Wizards", SeasonPPG: 25.1, Last5PPG: 30.2, Delta: 5.1, Status: trends.StatusSuperHot},
		},
	}
	injuries := map[string]string{"Anthony Davis": "Out (DAL)"}

	prompt := BuildPrompt(report, injuries, "Who is hot tonight?")

	for _, want := range []string{
		"LeBron James", "Soft vs Washington Wizards", "Super Hot",
		"Anthony Davis: Out (DAL)",
		"Who is hot tonight?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptEmptyContext(t *testing.T) {
	prompt := BuildPrompt(trends.EmptyReport(), nil, "Anything?")

	if !strings.Contains(prompt, "(no trend data available)") {
		t.Error("prompt should state there is no trend data")
	}
	if !strings.Contains(prompt, "(no injury data available)") {
		t.Error("prompt should state there is no injury data")
	}
}

func TestGenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key, got query %q", r.URL.RawQuery)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || !strings.Contains(req.Contents[0].Parts[0].Text, "hello") {
			t.Errorf("unexpected request contents: %+v", req.Contents)
		}

		json.NewEncoder(w).Encode(generateResponse{
			Candidates: []struct {
				Content content `json:"content"`
			}{
				{Content: content{Parts: []part{{Text: "hi there"}}}},
			},
		})
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "test-key", "gemini-1.5-flash")
	reply, err := client.GenerateContent(context.Background(), "hello")
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if reply != "hi there" {
		t.Errorf("reply = %q, want hi there", reply)
	}
}

func TestGenerateContentAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"},
		})
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "bad-key", "gemini-1.5-flash")
	_, err := client.GenerateContent(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("expected API error with message, got %v", err)
	}
}

func TestGenerateContentNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{})
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "test-key", "gemini-1.5-flash")
	if _, err := client.GenerateContent(context.Background(), "hello"); err == nil {
		t.Error("expected error when model returns no candidates")
	}
}
