package rotationrunner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimzord12/hybrid-kem-go/internal/keymanager"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
)

func TestNew_DefaultsNonPositiveIntervalToOneWeek(t *testing.T) {
	certPath := t.TempDir()
	t.Chdir(certPath)
	cfg := keymanager.Config{
		Preset:           preset.Normal,
		CertPath:         certPath,
		KeyExpiryMonths:  12,
		AutoGenerate:     true,
	}
	mgr := keymanager.New(cfg, nil)
	require.NoError(t, mgr.Initialize())

	r := New(mgr, 0, nil)
	assert.Equal(t, 7*24*time.Hour, r.interval)
}

func TestRun_StopsWhenSignalled(t *testing.T) {
	certPath := t.TempDir()
	t.Chdir(certPath)
	cfg := keymanager.Config{
		Preset:           preset.Normal,
		CertPath:         certPath,
		KeyExpiryMonths:  12,
		AutoGenerate:     true,
	}
	mgr := keymanager.New(cfg, nil)
	require.NoError(t, mgr.Initialize())

	r := New(mgr, 52, nil)

	done := make(chan struct{})
	go func() {
		r.Run()
		close(done)
	}()

	r.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
