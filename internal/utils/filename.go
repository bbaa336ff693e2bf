package utils

import (
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	// Whitespace characters to normalize
	whitespaceChars = regexp.MustCompile(`[\r\n\t]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a downloaded book title safe to use as a filename.
func SanitizeFilename(filename string) string {
	// Remove invalid filename characters
	filename = invalidFilenameChars.ReplaceAllString(filename, "")

	// Replace newlines/tabs with spaces
	filename = whitespaceChars.ReplaceAllString(filename, " ")

	// Collapse multiple spaces
	filename = multipleSpaces.ReplaceAllString(filename, " ")

	// Trim whitespace
	filename = strings.TrimSpace(filename)

	// Limit length (most filesystems support 255, but leave room for extension)
	if len(filename) > 200 {
		filename = strings.TrimSpace(filename[:200])
	}

	// Ensure it's not empty
	if filename == "" {
		filename = "Untitled"
	}

	return filename
}

// KnownBookExtensions contains file extensions commonly used for e-books
var KnownBookExtensions = []string{
	".epub",
	".pdf",
}

// ExtractAuthorFromFilename attempts to extract an author name from an
// imported filename. Scanned directories commonly store files as
// "Title - Author.extension".
func ExtractAuthorFromFilename(filename, bookTitle string) string {
	// Find where the title appears in the filename
	titlePos := strings.LastIndex(filename, bookTitle)
	if titlePos == -1 {
		return ""
	}

	// Get everything after the title
	possibleAuthor := filename[titlePos+len(bookTitle):]

	// Remove known extensions
	for _, ext := range KnownBookExtensions {
		possibleAuthor = strings.TrimSuffix(possibleAuthor, ext)
	}

	// Clean up non-alphanumeric characters from beginning and end
	possibleAuthor = strings.TrimFunc(possibleAuthor, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r >= 0x80) // Keep unicode letters
	})

	// Also try common separators
	possibleAuthor = strings.TrimPrefix(possibleAuthor, " - ")
	possibleAuthor = strings.TrimPrefix(possibleAuthor, "-")
	possibleAuthor = strings.TrimSpace(possibleAuthor)

	return possibleAuthor
}
