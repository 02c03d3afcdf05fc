package tasklist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNextOpen_FirstOpenItem(t *testing.T) {
	path := writeTempList(t, "- [x] a\n- [ ] b\n- [ ] c\n")
	task, ok, err := NextOpen(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", task)
}

func TestNextOpen_InProgressCounts(t *testing.T) {
	path := writeTempList(t, "- [x] a\n- [/] almost done\n- [ ] later\n")
	task, ok, err := NextOpen(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "almost done", task)
}

func TestNextOpen_AllDone(t *testing.T) {
	path := writeTempList(t, "- [x] a\n- [X] b\n")
	_, ok, err := NextOpen(path)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNextOpen_MissingFile(t *testing.T) {
	_, _, err := NextOpen(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestAllComplete_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"one open remains", "- [x] a\n- [ ] b\n", false},
		{"all done", "- [x] a\n- [x] b\n", true},
		{"in-progress is not done", "- [x] a\n- [/] b\n", false},
		{"no checklist lines", "# just a heading\nprose\n", false},
		{"empty file", "", false},
		{"indented items", "  - [x] a\n  - [X] b\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempList(t, tt.content)
			done, err := AllComplete(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, done)
		})
	}
}

func TestCounts(t *testing.T) {
	path := writeTempList(t, `# Tasks
- [ ] one
- [/] two
- [x] three
- [X] four
- plain list item
`)
	open, inProgress, done, err := Counts(path)
	require.NoError(t, err)
	assert.Equal(t, 1, open)
	assert.Equal(t, 1, inProgress)
	assert.Equal(t, 2, done)
}

func TestHashFile_StableAndSensitive(t *testing.T) {
	path := writeTempList(t, "- [ ] a\n")
	h1, err := HashFile(path)
	require.NoError(t, err)
	h2, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	require.NoError(t, os.WriteFile(path, []byte("- [x] a\n"), 0644))
	h3, err := HashFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
