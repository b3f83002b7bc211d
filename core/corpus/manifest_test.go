package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifest(t *testing.T) {
	names := Manifest()
	require.Len(t, names, 39)

	assert.Equal(t, "PART01", names[0])
	assert.Equal(t, "PART22", names[21])
	assert.Equal(t, "Preamble", names[len(names)-1])

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		assert.False(t, seen[name], "duplicate manifest entry: %s", name)
		seen[name] = true
	}

	for _, special := range []string{"PART04A", "PART09A", "PART09B", "PART14A"} {
		assert.True(t, seen[special], "missing manifest entry: %s", special)
	}
	assert.True(t, seen["SCHEDULE01"])
	assert.True(t, seen["SCHEDULE12"])
}

func TestFileURL(t *testing.T) {
	base := "https://raw.githubusercontent.com/prince-mishra/the-constitution-of-india/master"
	assert.Equal(t, base+"/PART01.txt", FileURL(base, "PART01"))

	// A trailing slash on the base URL must not produce a double slash.
	assert.Equal(t, base+"/Preamble.txt", FileURL(base+"/", "Preamble"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "SCHEDULE07.txt", FileName("SCHEDULE07"))
}
