package injuries

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// matchThreshold is the minimum normalised Levenshtein similarity for the
// fuzzy fallback to accept a canonical name.
const matchThreshold = 0.7

// Matcher resolves scraped injury-report names against the canonical roster.
type Matcher struct {
	teamByName map[string]string // canonical display name -> team abbreviation
}

// NewMatcher creates a matcher over the canonical team map.
func NewMatcher(teamByName map[string]string) *Matcher {
	return &Matcher{teamByName: teamByName}
}

// Resolve maps a scraped ("dirty") name to a canonical roster name and team
// abbreviation. Substring containment against canonical names wins first;
// otherwise the closest fuzzy match above the threshold. Names the roster
// does not know come back unchanged with team "Unknown".
func (m *Matcher) Resolve(dirtyName string) (string, string) {
	dirty := strings.TrimSpace(dirtyName)

	for official, team := range m.teamByName {
		if strings.Contains(dirty, official) {
			return official, team
		}
	}

	bestScore := 0.0
	bestName := ""
	dirtyLower := strings.ToLower(dirty)
	for official := range m.teamByName {
		score := similarity(dirtyLower, strings.ToLower(official))
		if score > matchThreshold && score > bestScore {
			bestScore = score
			bestName = official
		}
	}
	if bestName != "" {
		return bestName, m.teamByName[bestName]
	}

	return dirty, "Unknown"
}

// BuildReport resolves every scraped entry into the injury map:
// canonical-or-raw name -> "STATUS (TEAM)". Duplicate names last-write-win;
// the page offers no uniqueness guarantee and neither do we.
func (m *Matcher) BuildReport(entries []Entry) map[string]string {
	report := make(map[string]string, len(entries))
	for _, e := range entries {
		name, team := m.Resolve(e.RawName)
		report[name] = fmt.Sprintf("%s (%s)", e.Status, team)
	}
	return report
}

// similarity is Levenshtein distance normalised by the longer input length.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	distance := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(distance)/float64(maxLen)
}
