package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/filex"
)

// Export writes the currently filtered letters as CSV into the export
// directory.
func (a *App) Export(_ context.Context, _ []string) error {
	f, err := a.svc.Archive.ExportCSV(a.svc.Letters.List(a.criteria))
	if err != nil {
		return err
	}
	path, err := filex.WriteExport(a.exportDir, f.Name, f.Data)
	if err != nil {
		return err
	}
	a.println("Exported to", path)
	return nil
}

// Backup writes a backup file; "backup upload" also copies it to the
// configured bucket.
func (a *App) Backup(ctx context.Context, args []string) error {
	if !a.isAdmin() {
		return common.ErrForbidden
	}

	if len(args) == 1 && args[0] == "upload" {
		res, err := a.svc.Archive.UploadBackup(ctx, a.actor())
		if err != nil {
			return err
		}
		a.println("Uploaded as", res.Key)
		a.println("Download link (valid 15 minutes):", res.DownloadURL)
		return nil
	}
	if len(args) != 0 {
		return errUsage
	}

	f, err := a.svc.Archive.Backup(ctx)
	if err != nil {
		return err
	}
	path, err := filex.WriteExport(a.exportDir, f.Name, f.Data)
	if err != nil {
		return err
	}
	a.println("Backup written to", path)
	return nil
}

func (a *App) Restore(ctx context.Context, args []string) error {
	path, err := oneArg(args)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !a.confirm("Replace all letters, users and settings with the backup?") {
		a.println("Cancelled")
		return nil
	}
	if err := a.svc.Archive.Restore(ctx, a.actor(), data); err != nil {
		return err
	}
	a.println("Backup restored")
	return nil
}

func (a *App) Storage(ctx context.Context, _ []string) error {
	if !a.isAdmin() {
		return common.ErrForbidden
	}
	usage, err := a.svc.Archive.StorageUsage(ctx)
	if err != nil {
		return err
	}
	a.println("Storage used:", usage)
	return nil
}
