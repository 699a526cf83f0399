package models

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// MaxAttachmentSize is the largest file accepted as a letter attachment.
const MaxAttachmentSize = 5 << 20

var (
	ErrNotDataURL          = errors.New("attachment is not a base64 data URL")
	ErrUnsupportedMimeType = errors.New("attachment must be an image or a PDF")
	ErrAttachmentTooLarge  = errors.New("attachment exceeds 5 MiB")
)

// AllowedAttachmentType reports whether mime may be attached to a letter.
func AllowedAttachmentType(mime string) bool {
	return strings.HasPrefix(mime, "image/") || mime == "application/pdf"
}

// BuildDataURL encodes data as "data:<mime>;base64,<payload>".
func BuildDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL splits a base64 data URL into its mime type and the still
// base64-encoded payload.
func ParseDataURL(s string) (mime, payload string, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", "", ErrNotDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", ErrNotDataURL
	}
	mime, ok = strings.CutSuffix(header, ";base64")
	if !ok || mime == "" {
		return "", "", ErrNotDataURL
	}
	return mime, payload, nil
}

// DecodeDataURL returns the mime type and decoded bytes of a data URL.
func DecodeDataURL(s string) (string, []byte, error) {
	mime, payload, err := ParseDataURL(s)
	if err != nil {
		return "", nil, err
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrNotDataURL, err)
	}
	return mime, data, nil
}

// CheckAttachment validates a stored attachment. An empty string means no
// attachment and is accepted.
func CheckAttachment(s string) error {
	if s == "" {
		return nil
	}
	mime, data, err := DecodeDataURL(s)
	if err != nil {
		return err
	}
	if !AllowedAttachmentType(mime) {
		return fmt.Errorf("%w: %s", ErrUnsupportedMimeType, mime)
	}
	if len(data) > MaxAttachmentSize {
		return ErrAttachmentTooLarge
	}
	return nil
}
