package query

import "github.com/dmitrijs2005/arsip/internal/models"

// CategoryCount is one bar of the category chart.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats is the dashboard summary of a letter collection.
type Stats struct {
	Total      int             `json:"total"`
	Masuk      int             `json:"masuk"`
	Keluar     int             `json:"keluar"`
	Categories []CategoryCount `json:"categories"`
}

// Summarize counts letters per direction and per category. Categories are
// listed in the order they are first seen.
func Summarize(letters []models.Letter) Stats {
	s := Stats{Total: len(letters), Categories: []CategoryCount{}}
	index := make(map[string]int)

	for _, l := range letters {
		switch l.Type {
		case models.LetterIncoming:
			s.Masuk++
		case models.LetterOutgoing:
			s.Keluar++
		}

		i, ok := index[l.Category]
		if !ok {
			i = len(s.Categories)
			index[l.Category] = i
			s.Categories = append(s.Categories, CategoryCount{Category: l.Category})
		}
		s.Categories[i].Count++
	}
	return s
}
