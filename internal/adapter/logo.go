package adapter

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mmcdole/troutctl/internal/domain"
)

// MaxLogoSize is the largest logo file the server accepts
const MaxLogoSize = 5 << 20

// LogoExtensions lists the accepted logo file types
var LogoExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"}

// ReadLogoFile loads a local image as a pending logo upload. Files with an
// unsupported extension or over MaxLogoSize fail with domain.ErrValidation
// before any bytes are sent.
func ReadLogoFile(path string) (domain.LogoAsset, error) {
	path, err := expandHome(strings.TrimSpace(path))
	if err != nil {
		return domain.LogoAsset{}, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(LogoExtensions, ext) {
		return domain.LogoAsset{}, fmt.Errorf("%w: logo must be one of %s", domain.ErrValidation, strings.Join(LogoExtensions, ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.LogoAsset{}, fmt.Errorf("open logo: %w", err)
	}
	defer f.Close()

	// Read one byte past the limit to detect oversize files without stat races
	data, err := io.ReadAll(io.LimitReader(f, MaxLogoSize+1))
	if err != nil {
		return domain.LogoAsset{}, fmt.Errorf("read logo: %w", err)
	}
	if len(data) > MaxLogoSize {
		return domain.LogoAsset{}, fmt.Errorf("%w: logo exceeds %d MB", domain.ErrValidation, MaxLogoSize>>20)
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return domain.LogoAsset{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}
