package store

import (
	"context"
	"fmt"
	"unicode/utf16"
)

// Usage approximates the space the stored collections take, counting two
// bytes per UTF-16 code unit of every key and value.
func (s *Store) Usage(ctx context.Context) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for k, v := range all {
		total += (utf16Len(k) + utf16Len(v)) * 2
	}
	return total, nil
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += len(utf16.Encode([]rune{r}))
	}
	return n
}

// FormatKB renders a byte count as kilobytes with two decimals, e.g. "1.50 KB".
func FormatKB(bytes int) string {
	return fmt.Sprintf("%.2f KB", float64(bytes)/1024)
}
