package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_CreatesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.md")
	require.NoError(t, Init(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Session journal")

	// A second Init must not truncate.
	require.NoError(t, Append(path, 1, "t", "ok", "r"))
	require.NoError(t, Init(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Loop 1")
}

func TestAppend_TruncatesLongResponses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.md")
	long := strings.Repeat("word ", 200)
	require.NoError(t, Append(path, 3, "task", "success", long))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "…")
	assert.Less(t, len(data), 700)
}
