package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/arsip/internal/models"
)

// Backup is the JSON backup document. Letters and Users hold the raw
// serialized collections as strings, exactly as they are stored, so
// readers must decode those two fields a second time.
type Backup struct {
	Letters string       `json:"letters"`
	Users   string       `json:"users"`
	Config  BackupConfig `json:"config"`
}

// BackupConfig is the "config" object of a backup file.
type BackupConfig struct {
	AppTitle   string `json:"appTitle"`
	ExportDate string `json:"exportDate"`
}

const emptyCollection = "[]"

// NewBackup assembles a Backup from the raw stored collections. Missing
// collections are recorded as "[]".
func NewBackup(rawLetters, rawUsers, appTitle string, now time.Time) Backup {
	if rawLetters == "" {
		rawLetters = emptyCollection
	}
	if rawUsers == "" {
		rawUsers = emptyCollection
	}
	return Backup{
		Letters: rawLetters,
		Users:   rawUsers,
		Config: BackupConfig{
			AppTitle:   appTitle,
			ExportDate: now.UTC().Format("2006-01-02T15:04:05.000Z"),
		},
	}
}

// ToJSONBackup serializes b with two-space indentation.
func ToJSONBackup(b Backup) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// Restored holds the collections decoded from a backup file.
type Restored struct {
	Letters  []models.Letter
	Users    []models.User
	AppTitle string
}

// DecodeBackup parses a backup document, including the embedded letters and
// users collections.
func DecodeBackup(data []byte) (Restored, error) {
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return Restored{}, fmt.Errorf("decode backup: %w", err)
	}

	r := Restored{AppTitle: b.Config.AppTitle}
	if err := decodeEmbedded(b.Letters, &r.Letters); err != nil {
		return Restored{}, fmt.Errorf("decode backup letters: %w", err)
	}
	if err := decodeEmbedded(b.Users, &r.Users); err != nil {
		return Restored{}, fmt.Errorf("decode backup users: %w", err)
	}
	return r, nil
}

func decodeEmbedded[T any](raw string, dst *[]T) error {
	if raw == "" {
		raw = emptyCollection
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []T{}
	}
	return nil
}

// BackupFileName is the download name for a backup made at now, dated in UTC.
func BackupFileName(now time.Time) string {
	return "backup_arsip_" + now.UTC().Format(models.DateLayout) + ".json"
}
