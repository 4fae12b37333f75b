package injuries

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const injuryPage = `
<html><body>
<h4>Boston Celtics</h4>
<table>
  <thead><tr><th>Player</th><th>Position</th><th>Updated</th><th>Injury</th><th>Injury Status</th></tr></thead>
  <tbody>
    <tr>
      <td><span class="CellPlayerName--long"><a href="/p/1">Jayson Tatum</a></span><span class="CellPlayerName--short"><a href="/p/1">J. Tatum</a></span></td>
      <td>SF</td><td>Jan 2</td><td>Ankle</td><td>Out for the season</td>
    </tr>
    <tr>
      <td><a href="/p/2">Jrue Holiday</a></td>
      <td>PG</td><td>Jan 1</td><td>Knee</td><td>Game Time Decision</td>
    </tr>
    <tr><td>Short row</td></tr>
  </tbody>
</table>
<table>
  <thead><tr><th>Rank</th><th>Team</th></tr></thead>
  <tbody><tr><td>1</td><td>Celtics</td></tr></tbody>
</table>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestParseEntries(t *testing.T) {
	entries, err := ParseEntries(mustDoc(t, injuryPage))
	if err != nil {
		t.Fatalf("ParseEntries: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].RawName != "Jayson Tatum" || entries[0].Status != "Out for the season" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].RawName != "Jrue Holiday" || entries[1].Status != "Game Time Decision" {
		t.Errorf("entry 1 = %+v", entries[1])
	}
}

func TestParseEntriesNoTables(t *testing.T) {
	_, err := ParseEntries(mustDoc(t, `<html><body><p>blocked</p></body></html>`))
	if err == nil {
		t.Error("expected error for page without injury tables")
	}
}

func TestParseEntriesIgnoresUnrelatedTables(t *testing.T) {
	page := `<table><thead><tr><th>Rank</th><th>Team</th></tr></thead>
		<tbody><tr><td>1</td><td>Celtics</td></tr></tbody></table>`
	_, err := ParseEntries(mustDoc(t, page))
	if err == nil {
		t.Error("a page with only non-injury tables should error")
	}
}
