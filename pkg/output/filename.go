package output

import "strings"

const maxFilenameLength = 200

// SanitizeFilename replaces characters that are invalid in file names with
// underscores, trims surrounding spaces and dots, and caps the length
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		return r
	}, name)

	name = strings.Trim(name, " .")
	if runes := []rune(name); len(runes) > maxFilenameLength {
		name = string(runes[:maxFilenameLength])
	}
	return name
}
