package cache

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/devbush/vidtrans/internal/domain"
	"github.com/devbush/vidtrans/internal/ports"
)

// ScreenshotStore keeps evidence images and reports in one directory. Every
// file in it can be regenerated from the subtitles, so it is managed like a
// cache.
type ScreenshotStore struct {
	fs      afero.Fs
	baseDir string
}

func NewScreenshotStore(fs afero.Fs, baseDir string) *ScreenshotStore {
	return &ScreenshotStore{
		fs:      fs,
		baseDir: baseDir,
	}
}

func (c *ScreenshotStore) Dir() string {
	return c.baseDir
}

func (c *ScreenshotStore) Path(name string) string {
	return filepath.Join(c.baseDir, name)
}

// WriteFile stages data in a hidden temp file and renames it over name, so a
// failed write never leaves a truncated file behind.
func (c *ScreenshotStore) WriteFile(name string, data []byte) error {
	if err := c.fs.MkdirAll(c.baseDir, 0755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(c.fs, c.baseDir, "."+name+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = c.fs.Chmod(tmpName, 0644)
	}
	if err == nil {
		err = c.fs.Rename(tmpName, c.Path(name))
	}
	if err != nil {
		_ = c.fs.Remove(tmpName)
		return err
	}
	return nil
}

func (c *ScreenshotStore) Exists(name string) bool {
	ok, err := afero.Exists(c.fs, c.Path(name))
	return err == nil && ok
}

func isGenerated(name string) bool {
	return domain.IsEvidenceFile(name) || name == domain.ReportFilename || name == domain.DOCXReportFilename
}

func (c *ScreenshotStore) Clear(ctx context.Context) (int, error) {
	entries, err := afero.ReadDir(c.fs, c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !isGenerated(entry.Name()) {
			continue
		}
		if err := c.fs.Remove(c.Path(entry.Name())); err == nil {
			removed++
		}
	}

	return removed, nil
}

func (c *ScreenshotStore) Stats(ctx context.Context) (itemCount int, totalSize int64, err error) {
	entries, err := afero.ReadDir(c.fs, c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !isGenerated(entry.Name()) {
			continue
		}
		if domain.IsEvidenceFile(entry.Name()) {
			itemCount++
		}
		totalSize += entry.Size()
	}

	return itemCount, totalSize, nil
}

var _ ports.EvidenceStore = (*ScreenshotStore)(nil)
