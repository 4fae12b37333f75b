package injuries

import (
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Entry is one scraped injury-report row, name exactly as the page renders it.
type Entry struct {
	RawName string
	Status  string
}

// ParseEntries extracts injury rows from the report page. The page carries
// one table per team; any table with a Player column is read. Page structure
// changes are expected, so rows missing either cell are skipped.
func ParseEntries(doc *goquery.Document) ([]Entry, error) {
	var entries []Entry
	tables := 0

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		playerCol, statusCol := -1, -1
		table.Find("thead th").Each(func(i int, th *goquery.Selection) {
			header := strings.TrimSpace(th.Text())
			switch {
			case strings.EqualFold(header, "Player"):
				playerCol = i
			case strings.EqualFold(header, "Injury Status"):
				statusCol = i
			}
		})

		if playerCol < 0 {
			return
		}
		// Some layouts label the last column just "Status".
		if statusCol < 0 {
			table.Find("thead th").Each(func(i int, th *goquery.Selection) {
				if strings.EqualFold(strings.TrimSpace(th.Text()), "Status") {
					statusCol = i
				}
			})
		}
		if statusCol < 0 {
			return
		}
		tables++

		table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() <= playerCol || cells.Length() <= statusCol {
				return
			}

			name := cleanPlayerCell(cells.Eq(playerCol))
			status := strings.TrimSpace(cells.Eq(statusCol).Text())
			if name == "" || status == "" {
				return
			}

			entries = append(entries, Entry{RawName: name, Status: status})
		})
	})

	if tables == 0 {
		return nil, fmt.Errorf("no injury tables found on page")
	}

	log.Printf("[injuries] Parsed %d entries from %d tables", len(entries), tables)
	return entries, nil
}

// cleanPlayerCell extracts a player name from the player cell. The cell nests
// long and short name variants; prefer the long form, fall back to flat text.
func cleanPlayerCell(cell *goquery.Selection) string {
	if long := cell.Find(".CellPlayerName--long a").First(); long.Length() > 0 {
		return strings.TrimSpace(long.Text())
	}
	if link := cell.Find("a").First(); link.Length() > 0 {
		return strings.TrimSpace(link.Text())
	}
	return strings.Join(strings.Fields(cell.Text()), " ")
}
