package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Varun-meghjiani/mod-shift-bot/internal/domain"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "data", "mod_data.json"))
}

func TestLoad_MissingFile(t *testing.T) {
	s := tempStore(t)
	table, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := tempStore(t)
	loc, err := time.LoadLocation("Asia/Karachi")
	require.NoError(t, err)

	now := time.Date(2025, time.June, 1, 14, 30, 0, 0, loc)
	end := now.Add(2 * time.Hour)

	table := Table{}
	r := table.GetOrCreate("42")
	r.Name = "varun"
	r.Shifts = append(r.Shifts, domain.Shift{Start: now, End: &end}, domain.Shift{Start: end.Add(time.Hour)})
	r.Checkins = append(r.Checkins, now.Add(25*time.Minute), now.Add(50*time.Minute))
	r.Missed = append(r.Missed, now.Add(80*time.Minute))
	r.AddMessage(domain.TrackedMessage{ChatID: 7, Content: "hi", Time: now.Add(time.Minute)})

	require.NoError(t, s.Save(table))

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded["42"]
	require.NotNil(t, got)
	assert.Equal(t, "varun", got.Name)
	require.Len(t, got.Shifts, 2)
	assert.True(t, got.Shifts[0].Start.Equal(now))
	require.NotNil(t, got.Shifts[0].End)
	assert.True(t, got.Shifts[0].End.Equal(end))
	assert.True(t, got.Shifts[1].Open())
	require.Len(t, got.Checkins, 2)
	assert.True(t, got.Checkins[1].Equal(now.Add(50*time.Minute)))
	require.Len(t, got.Missed, 1)
	require.Len(t, got.RecentMessages, 1)
	assert.Equal(t, int64(7), got.RecentMessages[0].ChatID)
	assert.Equal(t, "hi", got.RecentMessages[0].Content)
	assert.True(t, got.RecentMessages[0].Time.Equal(now.Add(time.Minute)))
}

func TestLoad_CorruptFilePreservedAside(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path), 0o755))
	require.NoError(t, os.WriteFile(s.Path, []byte("{not json"), 0o644))

	table, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, table)

	// Original content must survive under a .corrupt-* name.
	entries, err := os.ReadDir(filepath.Dir(s.Path))
	require.NoError(t, err)
	found := false
	for _, e := range entries {
		if e.Name() != filepath.Base(s.Path) && len(e.Name()) > len(filepath.Base(s.Path)) {
			raw, err := os.ReadFile(filepath.Join(filepath.Dir(s.Path), e.Name()))
			require.NoError(t, err)
			assert.Equal(t, "{not json", string(raw))
			found = true
		}
	}
	assert.True(t, found, "corrupt file should be renamed aside, not deleted")

	_, err = os.Stat(s.Path)
	assert.True(t, os.IsNotExist(err), "original path should be vacated")
}

func TestGetOrCreate(t *testing.T) {
	table := Table{}
	a := table.GetOrCreate("1")
	require.NotNil(t, a)
	assert.Same(t, a, table.GetOrCreate("1"))
	assert.NotNil(t, a.Shifts)
	assert.NotNil(t, a.Checkins)
	assert.NotNil(t, a.Missed)
	assert.NotNil(t, a.RecentMessages)
}
