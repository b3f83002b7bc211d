package corpus

import (
	"fmt"
	"strings"
)

// SentinelFile is the file whose presence means the corpus is already
// downloaded. The preamble is part of every complete download, so checking it
// alone is enough.
const SentinelFile = "Preamble.txt"

// Manifest returns the fixed list of constitution source files without the
// .txt extension: parts 1-22, the four lettered amendment parts, twelve
// schedules and the preamble.
func Manifest() []string {
	names := make([]string, 0, 39)
	for i := 1; i <= 22; i++ {
		names = append(names, fmt.Sprintf("PART%02d", i))
	}
	names = append(names, "PART04A", "PART09A", "PART09B", "PART14A")
	for i := 1; i <= 12; i++ {
		names = append(names, fmt.Sprintf("SCHEDULE%02d", i))
	}
	names = append(names, "Preamble")
	return names
}

// FileName returns the stored file name for a manifest entry.
func FileName(name string) string {
	return name + ".txt"
}

// FileURL builds the raw download URL for one corpus file.
func FileURL(baseURL, name string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + FileName(name)
}
