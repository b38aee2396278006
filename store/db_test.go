package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *ExportStore {
	t.Helper()
	s, err := NewExportStore(filepath.Join(t.TempDir(), "exports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func export(n int, content string) *Export {
	return &Export{
		ID:        fmt.Sprintf("e%02d", n),
		Session:   "s1",
		Filename:  fmt.Sprintf("qr-code-%d.png", 1000+n),
		Content:   content,
		PixelSize: 300,
		Bytes:     1234,
		CreatedAt: int64(1000 + n),
	}
}

func TestSaveAndRecent(t *testing.T) {
	s := openTestStore(t)

	first := export(1, "https://example.com")
	second := export(2, "tel:+1234567890")
	second.HasLogo = true
	require.NoError(t, s.Save(first))
	require.NoError(t, s.Save(second))
	require.NoError(t, s.Save(first))

	got, err := s.Recent("s1", 10, 0)
	require.NoError(t, err)
	if diff := cmp.Diff([]Export{*second, *first}, got); diff != "" {
		t.Errorf("Recent() mismatch (-want +got):\n%s", diff)
	}

	n, err := s.Count("s1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRecentPagination(t *testing.T) {
	s := openTestStore(t)
	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Save(export(i, "x")))
	}

	page, err := s.Recent("s1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "e03", page[0].ID)
	assert.Equal(t, "e02", page[1].ID)
}

func TestSearch(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(export(1, "https://example.com/menu")))
	require.NoError(t, s.Save(export(2, "mailto:hello@example.com")))
	require.NoError(t, s.Save(export(3, `WIFI:T:WPA;S:"cafe";P:secret;;`)))

	got, err := s.Search("s1", "menu", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e01", got[0].ID)

	got, err = s.Search("s1", `"cafe"`, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e03", got[0].ID)
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)
	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Save(export(i, fmt.Sprintf("item %d", i))))
	}

	removed, err := s.Prune(3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	got, err := s.Recent("s1", 10, 0)
	require.NoError(t, err)
	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"e05", "e04", "e03"}, ids)

	found, err := s.Search("s1", "item", 10)
	require.NoError(t, err)
	assert.Len(t, found, 3)

	removed, err = s.Prune(0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestQueriesAreScopedToSession(t *testing.T) {
	s := openTestStore(t)
	mine := export(1, "https://example.com/mine")
	theirs := export(2, "https://example.com/theirs")
	theirs.Session = "s2"
	require.NoError(t, s.Save(mine))
	require.NoError(t, s.Save(theirs))

	got, err := s.Recent("s1", 10, 0)
	require.NoError(t, err)
	if diff := cmp.Diff([]Export{*mine}, got); diff != "" {
		t.Errorf("Recent() mismatch (-want +got):\n%s", diff)
	}

	found, err := s.Search("s1", "example", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "e01", found[0].ID)

	found, err = s.Search("s1", "theirs", 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	n, err := s.Count("s2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.Count("")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestInMemoryStore(t *testing.T) {
	s, err := NewExportStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(export(1, "a")))
	n, err := s.Count("s1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
