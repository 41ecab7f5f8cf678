// Package images finds wallpaper candidates on disk and sanity-checks that
// files claiming to be images actually are.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"wallshift/internal/logging"
)

var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".tiff": {},
	".webp": {},
	".avif": {},
}

// ErrNoImages indicates a directory walk found nothing usable.
var ErrNoImages = errors.New("images: no supported images found")

// Discover walks dir recursively and returns every readable file with a
// supported image extension. Unreadable entries are skipped with a warning;
// an empty result is an error so callers never build a queue over nothing.
func Discover(dir string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("read image directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("image path %s is not a directory", dir)
	}

	var found []string
	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("skipping unreadable entry",
				logging.String("path", path),
				logging.Error(walkErr))
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := supportedExtensions[ext]; !ok {
			return nil
		}
		if _, err := os.Stat(path); err != nil {
			logger.Warn("skipping unreadable file",
				logging.String("path", path),
				logging.Error(err))
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk image directory %s: %w", dir, err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}

	logger.Debug("discovered images",
		logging.String("dir", dir),
		logging.Int("count", len(found)))
	return found, nil
}

// Validate confirms path points at a real image by extension and magic
// bytes. It is called before handing a path to the wallpaper tool so a
// renamed text file fails here instead of inside the tool.
func Validate(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := supportedExtensions[ext]; !ok {
		return fmt.Errorf("unsupported image format: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image %s: %w", path, err)
	}
	defer file.Close()

	header := make([]byte, 12)
	n, err := file.Read(header)
	if err != nil || n < 4 {
		return fmt.Errorf("image %s: header unreadable", path)
	}
	header = header[:n]

	if sniffImage(header) {
		return nil
	}
	return fmt.Errorf("image %s: unrecognized or corrupted header", path)
}

func sniffImage(header []byte) bool {
	switch {
	case len(header) >= 3 && bytes.Equal(header[:3], []byte{0xFF, 0xD8, 0xFF}):
		return true // JPEG
	case len(header) >= 4 && bytes.Equal(header[:4], []byte{0x89, 'P', 'N', 'G'}):
		return true // PNG
	case len(header) >= 4 && bytes.Equal(header[:4], []byte("GIF8")):
		return true // GIF
	case len(header) >= 2 && bytes.Equal(header[:2], []byte("BM")):
		return true // BMP
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WEBP")):
		return true // WebP
	case len(header) >= 4 && (bytes.Equal(header[:4], []byte{'I', 'I', 0x2A, 0x00}) || bytes.Equal(header[:4], []byte{'M', 'M', 0x00, 0x2A})):
		return true // TIFF
	case len(header) >= 12 && bytes.Equal(header[4:8], []byte("ftyp")):
		return true // AVIF and friends
	default:
		return false
	}
}
