// Package ai talks to the generative model used for letter summaries and
// metadata extraction. Any OpenAI-compatible chat completions endpoint
// works; the default configuration points at Gemini's compatible API.
package ai

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/arsip/internal/models"
)

const (
	// SummaryFailed is returned when the model answers with no text.
	SummaryFailed = "Gagal membuat ringkasan."
	// SummaryError is returned when the model could not be reached.
	SummaryError = "Terjadi kesalahan saat menghubungi AI."
)

var (
	ErrDisabled      = errors.New("ai: no API key configured")
	ErrEmptyResponse = errors.New("ai: empty response")
)

// Client is the boundary the rest of the archive depends on.
type Client interface {
	// Enabled reports whether calls can reach a model at all.
	Enabled() bool
	// Summarize returns a one-sentence synopsis, or SummaryFailed /
	// SummaryError. It never returns an error.
	Summarize(ctx context.Context, content string) string
	// ExtractFromText picks number, sender, receiver, title and category
	// out of plain letter text.
	ExtractFromText(ctx context.Context, text string) (models.ExtractedFields, error)
	// ExtractFromImage reads a scanned letter given as base64 data.
	ExtractFromImage(ctx context.Context, base64Data, mimeType string) (models.ExtractedFields, error)
}

// Disabled is the Client used when no credential is configured. Summaries
// come back as SummaryError and extraction fails with ErrDisabled.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) Summarize(context.Context, string) string { return SummaryError }

func (Disabled) ExtractFromText(context.Context, string) (models.ExtractedFields, error) {
	return models.ExtractedFields{}, ErrDisabled
}

func (Disabled) ExtractFromImage(context.Context, string, string) (models.ExtractedFields, error) {
	return models.ExtractedFields{}, ErrDisabled
}
