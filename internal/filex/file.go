// Package filex contains filesystem helpers for staging photo files.
package filex

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// EnsureSubDir creates (if needed) and returns a subdirectory of the current
// working directory.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadPhoto reads a photo file from disk and returns its bytes together with
// the sniffed content type. Content sniffing looks at the first 512 bytes
// only, per net/http.DetectContentType.
func ReadPhoto(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, http.DetectContentType(data), nil
}

// ExtensionForMime maps common photo content types to a file extension used
// when building object-storage keys. Unknown types fall back to the source
// path's extension, then to ".bin".
func ExtensionForMime(mimeType, sourcePath string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if ext := filepath.Ext(sourcePath); ext != "" {
		return ext
	}
	return ".bin"
}
