package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._\s-]`)

// SanitizeFilename cleans filename for safe storage by removing dangerous
// characters and limiting length. It trims spaces and dots, removes parent
// directory references, and filters out non-alphanumeric characters except
// for safe punctuation.
func SanitizeFilename(filename string) string {
	sanitized := strings.Trim(filename, " .")
	sanitized = strings.ReplaceAll(sanitized, "..", "")
	sanitized = unsafeFilenameChars.ReplaceAllString(sanitized, "")
	if len(sanitized) > 255 {
		sanitized = sanitized[:255]
	}
	return sanitized
}

// TempUploadName prefixes a sanitized filename with a UUID so concurrent
// uploads of the same file never collide on disk.
func TempUploadName(filename string) string {
	return uuid.New().String() + "_" + filename
}
