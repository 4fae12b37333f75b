package nba

import (
	"fmt"
	"strconv"
	"strings"
)

// response is the envelope every stats endpoint shares: named result sets,
// each a header row plus untyped cells.
type response struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

// findResultSet returns the result set with the given name, or the first one
// when name is empty.
func (r *response) findResultSet(name string) (*resultSet, error) {
	if len(r.ResultSets) == 0 {
		return nil, fmt.Errorf("response has no result sets")
	}
	if name == "" {
		return &r.ResultSets[0], nil
	}
	for i := range r.ResultSets {
		if strings.EqualFold(r.ResultSets[i].Name, name) {
			return &r.ResultSets[i], nil
		}
	}
	return nil, fmt.Errorf("result set %q not found", name)
}

// row wraps one rowSet entry with header-name cell access. Cells are untyped
// and may be null; accessors coerce what they can and zero the rest.
type row struct {
	index map[string]int
	cells []interface{}
}

func (rs *resultSet) rows() []row {
	index := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		index[h] = i
	}

	out := make([]row, 0, len(rs.RowSet))
	for _, cells := range rs.RowSet {
		out = append(out, row{index: index, cells: cells})
	}
	return out
}

func (r row) cell(header string) interface{} {
	i, ok := r.index[header]
	if !ok || i >= len(r.cells) {
		return nil
	}
	return r.cells[i]
}

func (r row) str(header string) string {
	switch v := r.cell(header).(type) {
	case string:
		return v
	case float64:
		// IDs arrive as JSON numbers; render them without an exponent.
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func (r row) float(header string) float64 {
	switch v := r.cell(header).(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

func (r row) int(header string) int {
	return int(r.float(header))
}
