// Package export renders letters as CSV and builds/decodes JSON backups.
package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"time"

	"github.com/dmitrijs2005/arsip/internal/models"
)

// Header is the fixed CSV header row.
var Header = []string{
	"Nomor Surat", "Judul/Perihal", "Tipe", "Pengirim", "Penerima",
	"Kategori", "Kategori Surat", "Tanggal", "Ringkasan AI",
}

const (
	missingEducationLevel = "Umum"
	missingSummary        = "-"
)

func record(l models.Letter) []string {
	edu := l.EducationLevel
	if edu == "" {
		edu = missingEducationLevel
	}
	summary := l.AISummary
	if summary == "" {
		summary = missingSummary
	}
	return []string{
		l.Number, l.Title, string(l.Type), l.Sender, l.Receiver,
		l.Category, edu, l.Date, summary,
	}
}

// ToCSV renders letters in the archive's legacy CSV layout: header row,
// then one line per letter joined by "\n". Text fields are wrapped in
// double quotes without escaping; type and date are written bare.
// Spreadsheets built against earlier exports depend on this exact output.
func ToCSV(letters []models.Letter) string {
	lines := make([]string, 0, len(letters)+1)
	lines = append(lines, strings.Join(Header, ","))

	for _, l := range letters {
		r := record(l)
		for i := range r {
			// columns 2 (type) and 7 (date) stay unquoted
			if i == 2 || i == 7 {
				continue
			}
			r[i] = `"` + r[i] + `"`
		}
		lines = append(lines, strings.Join(r, ","))
	}
	return strings.Join(lines, "\n")
}

// ToCSVStrict renders the same columns with RFC 4180 quoting, so embedded
// quotes, commas and newlines survive a round trip.
func ToCSVStrict(letters []models.Letter) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return "", err
	}
	for _, l := range letters {
		if err := w.Write(record(l)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CSVFileName is the download name for a CSV export made at now, dated in UTC.
func CSVFileName(now time.Time) string {
	return "Rekap_Arsip_Surat_" + now.UTC().Format(models.DateLayout) + ".csv"
}
