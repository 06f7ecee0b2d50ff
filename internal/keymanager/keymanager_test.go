package keymanager

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimzord12/hybrid-kem-go/internal/preset"
	"github.com/jimzord12/hybrid-kem-go/internal/rotation"
)

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	t.Chdir(dir)
	return Config{
		Preset:                     preset.Normal,
		CertPath:                   dir,
		KeyExpiryMonths:            12,
		AutoGenerate:               true,
		EnableFileBackup:           true,
		RotationGracePeriodMinutes: 0,
		RotationIntervalWeeks:      4,
	}
}

func TestInitialize_GeneratesKeysWhenNoneExist(t *testing.T) {
	m := New(testConfig(t), nil)

	require.NoError(t, m.Initialize())

	status := m.Status()
	assert.True(t, status.HasKeys)
	assert.True(t, status.KeysValid)
	assert.Equal(t, uint32(1), status.CurrentVersion)
}

func TestInitialize_IsIdempotent(t *testing.T) {
	m := New(testConfig(t), nil)
	require.NoError(t, m.Initialize())

	pub1, err := m.CurrentPublicKey()
	require.NoError(t, err)

	require.NoError(t, m.Initialize())

	pub2, err := m.CurrentPublicKey()
	require.NoError(t, err)
	assert.Equal(t, pub1, pub2)
}

func TestInitialize_FailsWhenAutoGenerateDisabledAndNoKeys(t *testing.T) {
	cfg := testConfig(t)
	cfg.AutoGenerate = false
	m := New(cfg, nil)

	err := m.Initialize()
	require.Error(t, err)
}

func TestLoadOrGenerate_AdoptsPersistedKeysAcrossRestart(t *testing.T) {
	cfg := testConfig(t)

	m1 := New(cfg, nil)
	require.NoError(t, m1.Initialize())
	pub1, err := m1.CurrentPublicKey()
	require.NoError(t, err)
	status1 := m1.Status()

	m2 := New(cfg, nil)
	require.NoError(t, m2.Initialize())
	pub2, err := m2.CurrentPublicKey()
	require.NoError(t, err)
	status2 := m2.Status()

	assert.Equal(t, pub1, pub2)
	assert.Equal(t, status1.CurrentVersion, status2.CurrentVersion)
}

func TestRotateKeys_IncrementsVersionAndRotatesHistory(t *testing.T) {
	m := New(testConfig(t), nil)
	require.NoError(t, m.Initialize())

	before, err := m.CurrentPublicKey()
	require.NoError(t, err)

	require.NoError(t, m.RotateKeys(rotation.ManualRotation))

	after, err := m.CurrentPublicKey()
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
	assert.Equal(t, uint32(2), m.Status().CurrentVersion)
}

func TestRotateKeys_ConcurrentCallsResultInExactlyOneNewVersion(t *testing.T) {
	m := New(testConfig(t), nil)
	require.NoError(t, m.Initialize())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.RotateKeys(rotation.ManualRotation)
		}()
	}
	wg.Wait()

	assert.Equal(t, uint32(2), m.Status().CurrentVersion)
}

func TestDecryptionKeys_IncludesPreviousDuringGraceWindow(t *testing.T) {
	cfg := testConfig(t)
	cfg.RotationGracePeriodMinutes = 60
	m := New(cfg, nil)
	require.NoError(t, m.Initialize())

	secretBefore, err := m.CurrentSecretKey()
	require.NoError(t, err)

	require.NoError(t, m.RotateKeys(rotation.ManualRotation))

	keys, err := m.DecryptionKeys()
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, secretBefore, keys[1])
}

func TestDecryptionKeys_DropsPreviousAfterGraceWindowElapses(t *testing.T) {
	cfg := testConfig(t)
	cfg.RotationGracePeriodMinutes = 0 // treated as "expires almost immediately"
	m := New(cfg, nil)
	require.NoError(t, m.Initialize())

	require.NoError(t, m.RotateKeys(rotation.ManualRotation))

	// allow the best-effort AfterFunc(0) timer to fire
	time.Sleep(50 * time.Millisecond)

	keys, err := m.DecryptionKeys()
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestHealthCheck_UnhealthyBeforeInitialize(t *testing.T) {
	m := New(testConfig(t), nil)

	hc := m.HealthCheck()
	assert.False(t, hc.Healthy)
	assert.NotEmpty(t, hc.Issues)
}

func TestHealthCheck_HealthyAfterInitialize(t *testing.T) {
	m := New(testConfig(t), nil)
	require.NoError(t, m.Initialize())

	hc := m.HealthCheck()
	assert.True(t, hc.Healthy)
	assert.Empty(t, hc.Issues)
}
