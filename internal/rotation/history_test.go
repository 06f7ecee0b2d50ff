package rotation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimzord12/hybrid-kem-go/internal/preset"
)

func TestNextVersion_EmptyHistoryReturnsOne(t *testing.T) {
	h := New(t.TempDir())

	v, err := h.NextVersion()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)
}

func TestNextVersion_AfterAppendsIsMaxPlusOne(t *testing.T) {
	h := New(t.TempDir())
	now := time.Now()

	require.NoError(t, h.Append(1, preset.Normal, now, now.AddDate(1, 0, 0), InitialGeneration))
	require.NoError(t, h.Append(2, preset.Normal, now.AddDate(0, 1, 0), now.AddDate(1, 1, 0), ScheduledRotation))

	v, err := h.NextVersion()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), v)
}

func TestAppend_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	h1 := New(dir)
	require.NoError(t, h1.Append(1, preset.Normal, now, now.AddDate(1, 0, 0), InitialGeneration))

	h2 := New(dir)
	entries, err := h2.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint32(1), entries[0].Version)
	assert.Equal(t, InitialGeneration, entries[0].Reason)
	assert.NotEmpty(t, entries[0].ID)
}

func TestStats_EmptyHistory(t *testing.T) {
	h := New(t.TempDir())

	stats, err := h.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalRotations)
	assert.Equal(t, 0, stats.AverageKeyLifetimeDays)
	assert.Nil(t, stats.Oldest)
	assert.Nil(t, stats.Newest)
}

func TestStats_AverageKeyLifetimeDays(t *testing.T) {
	h := New(t.TempDir())

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, h.Append(1, preset.Normal, base, base.AddDate(1, 0, 0), InitialGeneration))
	require.NoError(t, h.Append(2, preset.Normal, base.AddDate(0, 0, 10), base.AddDate(1, 0, 10), ScheduledRotation))
	require.NoError(t, h.Append(3, preset.Normal, base.AddDate(0, 0, 30), base.AddDate(1, 0, 30), ScheduledRotation))

	stats, err := h.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRotations)
	// gaps: 10 days, 20 days -> average 15
	assert.Equal(t, 15, stats.AverageKeyLifetimeDays)
	require.NotNil(t, stats.Oldest)
	require.NotNil(t, stats.Newest)
	assert.Equal(t, uint32(1), stats.Oldest.Version)
	assert.Equal(t, uint32(3), stats.Newest.Version)
}

func TestRead_MissingFileIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	h := New(filepath.Join(dir, "nested", "does-not-exist"))

	entries, err := h.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRead_CorruptFileYieldsEmptyHistory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, historyFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	h := New(dir)
	entries, err := h.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
