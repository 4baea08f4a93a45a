package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
}

// CreateTestFilesWithDefault creates a source folder mixing images and other files
func CreateTestFilesWithDefault(t *testing.T, dir string) {
	t.Helper()
	WritePNG(t, filepath.Join(dir, "a.png"), 4, 3)
	WriteJPEG(t, filepath.Join(dir, "b.jpg"), 4, 3)
	WriteJPEG(t, filepath.Join(dir, "c.jpeg"), 4, 3)
	CreateTestFilesWithContent(t, dir, map[string]string{
		"notes.txt": "not an image",
	})
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
