package storage

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotFound is returned when a key holds no blob
var ErrNotFound = errors.New("blob not found")

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_ ]`)

// SanitizeKey returns a slash separated key whose segments carry only
// letters, digits, dots, dashes, underscores and spaces. Parent references
// and empty segments are dropped.
func SanitizeKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")

	var segments []string
	for _, seg := range strings.Split(key, "/") {
		seg = strings.ReplaceAll(seg, "..", "")
		seg = strings.TrimSpace(unsafeChars.ReplaceAllString(seg, ""))
		if seg == "" || seg == "." {
			continue
		}
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return "", fmt.Errorf("invalid blob key: %q", key)
	}
	return strings.Join(segments, "/"), nil
}
