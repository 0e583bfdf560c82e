package asset

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// illegalChars are characters not allowed in filenames on common filesystems.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00]`)

// multiSpace matches multiple consecutive spaces.
var multiSpace = regexp.MustCompile(`\s+`)

// multiDot matches multiple consecutive dots.
var multiDot = regexp.MustCompile(`\.{2,}`)

// FilenameFromURL derives the local filename for a URL: the last path
// segment, sanitized for the filesystem. URLs with no usable path
// segment get a synthesized unique name so two such URLs never collide.
func FilenameFromURL(rawURL string) string {
	name := ""
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
		if name == "/" || name == "." {
			name = ""
		}
	}
	name = SanitizeFilename(name)
	if name == "" {
		return "asset-" + uuid.NewString()
	}
	return name
}

// SanitizeFilename removes or replaces characters that are unsafe for
// filenames. This prevents path traversal and filesystem errors when the
// name comes straight off a remote URL.
func SanitizeFilename(name string) string {
	// Remove null bytes
	name = strings.ReplaceAll(name, "\x00", "")

	// Replace path separators with space
	name = strings.ReplaceAll(name, "/", " ")
	name = strings.ReplaceAll(name, "\\", " ")

	// Replace illegal characters with space
	name = illegalChars.ReplaceAllString(name, " ")

	// Fold accented characters to their base forms
	name = removeAccents(name)

	// Collapse multiple dots to single dot
	name = multiDot.ReplaceAllString(name, ".")

	// Collapse multiple spaces to single space
	name = multiSpace.ReplaceAllString(name, " ")

	// Trim leading/trailing whitespace and dots
	name = strings.Trim(name, " .")

	return name
}

// removeAccents strips diacritical marks (é -> e, ñ -> n).
func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}
