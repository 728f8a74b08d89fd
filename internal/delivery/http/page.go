package http

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

//go:embed static/index.html
var defaultPage []byte

// LoadPage reads the upload page from path.
// The built-in page is returned when path is empty or does not exist.
func LoadPage(path string) ([]byte, error) {
	if path == "" {
		return defaultPage, nil
	}

	page, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultPage, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read page %s: %w", path, err)
	}
	return page, nil
}

// DefaultPage returns the built-in upload page
func DefaultPage() []byte {
	return defaultPage
}
