package keystore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
)

func sampleKeyPair() KeyPair {
	return KeyPair{
		Preset:       preset.Normal,
		PublicKey:    []byte("public-key-bytes"),
		SecretKey:    []byte("secret-key-bytes"),
		Version:      1,
		CreatedAt:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		LastRotation: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestNew_RejectsEmptyCertPath(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
	assert.True(t, hyerrors.Is(err, hyerrors.KindValidation))
}

func TestNew_RejectsTraversal(t *testing.T) {
	_, err := New("../escape")
	require.Error(t, err)
	assert.True(t, hyerrors.Is(err, hyerrors.KindValidation))
}

func TestNew_CreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	certPath := filepath.Join(dir, "certs")

	s, err := New(certPath)
	require.NoError(t, err)
	require.NotNil(t, s)

	info, err := os.Stat(filepath.Join(certPath, backupDirName))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	s, err := New(dir)
	require.NoError(t, err)

	kp := sampleKeyPair()
	require.NoError(t, s.Save(kp))

	loaded, ok, err := s.Load(12)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, kp.Preset, loaded.Preset)
	assert.Equal(t, kp.PublicKey, loaded.PublicKey)
	assert.Equal(t, kp.SecretKey, loaded.SecretKey)
	assert.Equal(t, kp.Version, loaded.Version)
	assert.True(t, kp.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, kp.CreatedAt.AddDate(0, 12, 0), loaded.ExpiresAt)
}

func TestSave_PrivateKeyHasRestrictivePermissions(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(sampleKeyPair()))

	info, err := os.Stat(s.privateKeyPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoad_NotFoundWhenFilesMissing(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	s, err := New(dir)
	require.NoError(t, err)

	_, ok, err := s.Load(12)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoad_NotFoundWhenMetadataIncomplete(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(s.publicKeyPath(), []byte("pub"), 0o644))
	require.NoError(t, os.WriteFile(s.privateKeyPath(), []byte("priv"), 0o600))
	require.NoError(t, os.WriteFile(s.metadataPath(), []byte(`{"preset":""}`), 0o644))

	_, ok, err := s.Load(12)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackupExpired_WritesNamedFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.BackupExpired(sampleKeyPair()))

	stamp := time.Now().Format("2006-01")
	_, err = os.Stat(filepath.Join(s.backupDir(), "pub-key-expired-"+stamp+".bin"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(s.backupDir(), "priv-key-expired-"+stamp+".bin"))
	require.NoError(t, err)
}

func TestCleanupOldBackups_RemovesOnlyStaleEntries(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	s, err := New(dir)
	require.NoError(t, err)

	fresh := "pub-key-expired-" + time.Now().Format("2006-01") + ".bin"
	stale := "pub-key-expired-2020-01.bin"

	require.NoError(t, os.WriteFile(filepath.Join(s.backupDir(), fresh), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.backupDir(), stale), []byte("x"), 0o644))

	require.NoError(t, s.CleanupOldBackups())

	_, err = os.Stat(filepath.Join(s.backupDir(), fresh))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(s.backupDir(), stale))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractYearMonth(t *testing.T) {
	assert.Equal(t, "2026-07", extractYearMonth("pub-key-expired-2026-07.bin"))
	assert.Equal(t, "2026-07", extractYearMonth("priv-key-expired-2026-07.bin"))
	assert.Equal(t, "", extractYearMonth("not-a-backup.bin"))
}
