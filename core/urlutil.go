package core

import (
	"fmt"
	"net/url"
	"strings"
)

// JoinURL appends a slash-separated relative path to a base URL
func JoinURL(base string, rel string) (string, error) {
	u, err := url.JoinPath(base, strings.Split(rel, "/")...)
	if err != nil {
		return "", fmt.Errorf("failed to build url from %s and %s: %w", base, rel, err)
	}
	return u, nil
}
