// Package query selects and summarises letters. Every function here is pure:
// inputs are never modified.
package query

import (
	"strings"

	"github.com/dmitrijs2005/arsip/internal/models"
)

const (
	// AllTypes disables the type predicate.
	AllTypes = "ALL"
	// AllCategories disables the category predicate.
	AllCategories = "Semua"
)

// Criteria are ANDed together. Empty Text, DateFrom and DateTo impose no
// constraint; Type and Category are skipped when set to their "all"
// sentinel or left empty.
type Criteria struct {
	Text     string
	Type     string
	Category string
	DateFrom string
	DateTo   string
}

// DefaultCriteria matches every letter.
func DefaultCriteria() Criteria {
	return Criteria{Type: AllTypes, Category: AllCategories}
}

// IsDefault reports whether c imposes no constraint at all.
func (c Criteria) IsDefault() bool {
	return c.Text == "" &&
		(c.Type == "" || c.Type == AllTypes) &&
		(c.Category == "" || c.Category == AllCategories) &&
		c.DateFrom == "" && c.DateTo == ""
}

// Match reports whether l satisfies every predicate in c.
func (c Criteria) Match(l models.Letter) bool {
	if c.Text != "" {
		needle := strings.ToLower(c.Text)
		hit := false
		for _, field := range []string{l.Title, l.Number, l.Sender, l.Receiver} {
			if strings.Contains(strings.ToLower(field), needle) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	if c.Type != "" && c.Type != AllTypes && string(l.Type) != c.Type {
		return false
	}
	if c.Category != "" && c.Category != AllCategories && l.Category != c.Category {
		return false
	}

	// Dates are fixed-width YYYY-MM-DD, so string order is chronological.
	if c.DateFrom != "" && l.Date < c.DateFrom {
		return false
	}
	if c.DateTo != "" && l.Date > c.DateTo {
		return false
	}
	return true
}

// Filter returns the letters matching c in their original order. With
// default criteria the input slice itself is returned.
func Filter(letters []models.Letter, c Criteria) []models.Letter {
	if c.IsDefault() {
		return letters
	}

	out := make([]models.Letter, 0, len(letters))
	for _, l := range letters {
		if c.Match(l) {
			out = append(out, l)
		}
	}
	return out
}
