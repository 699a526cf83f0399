package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/arsip/internal/app"
	"github.com/dmitrijs2005/arsip/internal/backup"
	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/export"
	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/dmitrijs2005/arsip/internal/store"
)

// Uploader copies a backup file off the device. backup.S3Uploader
// implements it.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (backup.Uploaded, error)
}

// File is an in-memory export ready to be written or served.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ArchiveService produces exports and backups and restores backups. now is
// replaceable for tests.
type ArchiveService struct {
	state     *app.State
	uploader  Uploader
	strictCSV bool
	now       func() time.Time
	log       logging.Logger
}

// NewArchiveService wires exports and backups. uploader may be nil.
func NewArchiveService(state *app.State, uploader Uploader, strictCSV bool, log logging.Logger) *ArchiveService {
	return &ArchiveService{
		state:     state,
		uploader:  uploader,
		strictCSV: strictCSV,
		now:       time.Now,
		log:       log.With("module", "archive"),
	}
}

// ExportCSV renders letters, usually the currently filtered list.
func (s *ArchiveService) ExportCSV(letters []models.Letter) (File, error) {
	var body string
	if s.strictCSV {
		var err error
		if body, err = export.ToCSVStrict(letters); err != nil {
			return File{}, err
		}
	} else {
		body = export.ToCSV(letters)
	}

	return File{
		Name:        export.CSVFileName(s.now()),
		ContentType: "text/csv;charset=utf-8",
		Data:        []byte(body),
	}, nil
}

// Backup builds the JSON backup of all stored collections.
func (s *ArchiveService) Backup(ctx context.Context) (File, error) {
	letters, users := s.state.RawCollections(ctx)
	now := s.now()

	data, err := export.ToJSONBackup(export.NewBackup(letters, users, s.state.AppTitle(), now))
	if err != nil {
		return File{}, err
	}
	return File{Name: export.BackupFileName(now), ContentType: "application/json", Data: data}, nil
}

// CanUpload reports whether an off-device backup target is configured.
func (s *ArchiveService) CanUpload() bool {
	return s.uploader != nil
}

// UploadBackup builds a backup and stores it off-device.
func (s *ArchiveService) UploadBackup(ctx context.Context, actor models.User) (backup.Uploaded, error) {
	if err := requireAdmin(actor); err != nil {
		return backup.Uploaded{}, err
	}
	if s.uploader == nil {
		return backup.Uploaded{}, fmt.Errorf("%w: no backup bucket configured", common.ErrValidation)
	}

	f, err := s.Backup(ctx)
	if err != nil {
		return backup.Uploaded{}, err
	}
	return s.uploader.Upload(ctx, f.Name, f.Data)
}

// Restore replaces letters, users and the app title with the contents of a
// backup file. A backup without users is refused.
func (s *ArchiveService) Restore(ctx context.Context, actor models.User, data []byte) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	r, err := export.DecodeBackup(data)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if len(r.Users) == 0 {
		return fmt.Errorf("%w: backup contains no users", common.ErrValidation)
	}

	if err := s.state.Replace(ctx, r.Letters, r.Users, r.AppTitle); err != nil {
		return err
	}
	s.log.Info(ctx, "backup restored", "letters", len(r.Letters), "users", len(r.Users), "by", actor.ID)
	return nil
}

// StorageUsage returns the store size formatted as "<n.nn> KB".
func (s *ArchiveService) StorageUsage(ctx context.Context) (string, error) {
	n, err := s.state.StorageUsage(ctx)
	if err != nil {
		return "", err
	}
	return store.FormatKB(n), nil
}
