package allowlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAllowlistFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "allowlist.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeAllowlistFile(t, `{"allowlist": [
		"0xd26114cd6ee289accf82350c8d8487fedb8a0c07",
		"0x74467c63f3200A8a876E385d3e492aeB4b0D024B",
		"QmXKY6nDmDcVoKaHGDgfZuYSgtQgc47GBEHgh62oCSvTvQ"
	]}`)
	list, err := Load(FileSource{Path: path})
	require.NoError(t, err)

	assert.Equal(t, 3, list.Len())
	assert.True(t, list.Contains("0xd26114cd6ee289accf82350c8d8487fedb8a0c07"))
	assert.True(t, list.Contains("0x74467c63f3200a8a876e385d3e492aeb4b0d024b"))
	assert.True(t, list.Contains("qmxky6ndmdcvokahgdgfzuysgtqgc47gbehgh62ocsvtvq"))
	assert.False(t, list.Contains("0x74467c63f3200A8a876E385d3e492aeB4b0D024B"), "raw form is not a member, only the normalized one")

	assert.Equal(t, SourceFile, list.Source().Kind)
	assert.Equal(t, path, list.Source().Location)
	assert.False(t, list.LoadedAt().IsZero())
}

func TestLoadFileDuplicatesCollapse(t *testing.T) {
	path := writeAllowlistFile(t, `{"allowlist": [
		"0xAbCd01",
		"0xabcd01",
		"ABCD01"
	]}`)
	list, err := Load(FileSource{Path: path})
	require.NoError(t, err)
	require.Equal(t, 1, list.Len())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := Load(FileSource{Path: filepath.Join(t.TempDir(), "nope.json")})
	require.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestLoadFileMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"trailing comma", `{"allowlist": ["0xaaa",]}`},
		{"not json", `allowlist: 0xaaa`},
		{"top level list", `["0xaaa"]`},
		{"missing key", `{"denylist": ["0xaaa"]}`},
		{"non-list key", `{"allowlist": "0xaaa"}`},
		{"non-string element", `{"allowlist": [42]}`},
		{"empty entry", `{"allowlist": ["0xaaa", ""]}`},
		{"blank entry", `{"allowlist": ["0xaaa", "  "]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeAllowlistFile(t, tt.content)
			_, err := Load(FileSource{Path: path})
			require.ErrorIs(t, err, ErrMalformedSource)
		})
	}
}

func TestLoadFileUnknownSiblingKeys(t *testing.T) {
	path := writeAllowlistFile(t, `{"comment": "ops managed", "allowlist": ["0xaaa"]}`)
	list, err := Load(FileSource{Path: path})
	require.NoError(t, err)
	require.Equal(t, 1, list.Len())
}

func TestLoadInline(t *testing.T) {
	list, err := Load(InlineSource{List: "0xAAA,0xBBB"})
	require.NoError(t, err)

	assert.Equal(t, 2, list.Len())
	assert.True(t, list.Contains("0xaaa"))
	assert.True(t, list.Contains("0xbbb"))
	assert.False(t, list.Contains("0xccc"))
	assert.Equal(t, SourceInline, list.Source().Kind)
}

func TestLoadInlineWhitespace(t *testing.T) {
	list, err := Load(InlineSource{List: " 0xAAA , 0xBBB "})
	require.NoError(t, err)
	require.Equal(t, 2, list.Len())
	require.True(t, list.Contains("0xaaa"))
}

func TestLoadInlineEmptyDeniesAll(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t"} {
		list, err := Load(InlineSource{List: raw})
		require.NoError(t, err, "inline %q", raw)
		require.Equal(t, 0, list.Len(), "inline %q", raw)
	}
}

func TestLoadInlineEmptySegment(t *testing.T) {
	_, err := Load(InlineSource{List: "0xAAA,,0xBBB"})
	require.ErrorIs(t, err, ErrMalformedSource)
}

func TestLoadEntriesSorted(t *testing.T) {
	list, err := Load(InlineSource{List: "0xccc,0xaaa,0xbbb"})
	require.NoError(t, err)
	require.Equal(t, []Entry{"0xaaa", "0xbbb", "0xccc"}, list.Entries())
}
