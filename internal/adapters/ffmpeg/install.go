package ffmpeg

import (
	"archive/tar"
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/google/uuid"
	"github.com/ulikunitz/xz"

	"github.com/devbush/vidtrans/internal/config"
)

type archiveKind int

const (
	archiveNone archiveKind = iota
	archiveTarXz
	archive7z
	archiveZip
)

// release describes a static ffmpeg build for one platform
type release struct {
	url  string
	kind archiveKind
}

var errBinaryNotInArchive = errors.New("ffmpeg binary not found in archive")

func releaseFor(goos, goarch string) (release, bool) {
	switch goos {
	case "linux":
		switch goarch {
		case "amd64":
			return release{"https://johnvansickle.com/ffmpeg/releases/ffmpeg-release-amd64-static.tar.xz", archiveTarXz}, true
		case "arm64":
			return release{"https://johnvansickle.com/ffmpeg/releases/ffmpeg-release-arm64-static.tar.xz", archiveTarXz}, true
		}
	case "windows":
		return release{"https://www.gyan.dev/ffmpeg/builds/ffmpeg-release-essentials.7z", archive7z}, true
	case "darwin":
		return release{"https://evermeet.cx/ffmpeg/getrelease/zip", archiveZip}, true
	}
	return release{}, false
}

// CanInstall reports whether a static build is known for this platform
func (t *Tool) CanInstall() bool {
	_, ok := releaseFor(runtime.GOOS, runtime.GOARCH)
	return ok
}

// Install downloads a static ffmpeg build into the bundled bin directory
func (t *Tool) Install(ctx context.Context, progress func(downloaded, total int64)) error {
	rel, ok := releaseFor(runtime.GOOS, runtime.GOARCH)
	if !ok {
		return fmt.Errorf("no ffmpeg build for %s/%s: %s", runtime.GOOS, runtime.GOARCH, t.FFmpegInstructions())
	}

	binDir := config.BinDir()
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return err
	}

	archivePath := filepath.Join(t.tempDir, "vidtrans-ffmpeg-"+uuid.NewString())
	defer os.Remove(archivePath)

	t.logger.Info(ctx, "Downloading ffmpeg from %s", rel.url)
	if err := download(ctx, rel.url, archivePath, progress); err != nil {
		return fmt.Errorf("failed to download ffmpeg: %w", err)
	}

	destPath := filepath.Join(binDir, binaryName())
	if err := extractArchive(rel.kind, archivePath, binaryName(), destPath); err != nil {
		return fmt.Errorf("failed to unpack ffmpeg: %w", err)
	}

	t.binPath = destPath
	t.logger.Info(ctx, "Installed ffmpeg to %s", destPath)
	return nil
}

func download(ctx context.Context, url, destPath string, progress func(downloaded, total int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}

	// Partial downloads are removed
	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(destPath)
		}
	}()

	total := resp.ContentLength
	var downloaded int64

	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, total)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	success = true
	return nil
}

func extractArchive(kind archiveKind, archivePath, name, destPath string) error {
	switch kind {
	case archiveTarXz:
		f, err := os.Open(archivePath)
		if err != nil {
			return err
		}
		defer f.Close()
		return extractTarXz(f, name, destPath)
	case archive7z:
		return extract7z(archivePath, name, destPath)
	case archiveZip:
		return extractZip(archivePath, name, destPath)
	default:
		return fmt.Errorf("unknown archive kind %d", kind)
	}
}

// matchesBinary reports whether an archive entry is the wanted binary,
// whatever directory it sits in
func matchesBinary(entry, name string) bool {
	return path.Base(strings.ReplaceAll(entry, `\`, "/")) == name
}

func extractTarXz(r io.Reader, name, destPath string) error {
	xr, err := xz.NewReader(r)
	if err != nil {
		return err
	}

	tr := tar.NewReader(xr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return errBinaryNotInArchive
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag == tar.TypeReg && matchesBinary(hdr.Name, name) {
			return writeExecutable(tr, destPath)
		}
	}
}

func extract7z(archivePath, name, destPath string) error {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !matchesBinary(f.Name, name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		return writeExecutable(rc, destPath)
	}
	return errBinaryNotInArchive
}

func extractZip(archivePath, name, destPath string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !matchesBinary(f.Name, name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		return writeExecutable(rc, destPath)
	}
	return errBinaryNotInArchive
}

func writeExecutable(r io.Reader, destPath string) error {
	tmp := destPath + ".part"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, destPath)
}
