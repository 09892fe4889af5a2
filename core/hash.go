package core

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// HashBytes returns the lower-case hex SHA-1 digest of data
func HashBytes(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the lower-case hex SHA-1 digest of a file
func HashFile(fs billy.Filesystem, filePath string) (string, error) {
	f, err := fs.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", filePath, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashMatches compares two hex digests case-insensitively
func HashMatches(expected string, got string) bool {
	return strings.EqualFold(expected, got)
}
