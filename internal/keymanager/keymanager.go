// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package keymanager implements the process-wide key-lifecycle orchestrator:
// a single instance per process that owns the current key pair, drives
// rotation, and serves every other package's need for "the keys to use
// right now."
//
// Concurrent callers awaiting an in-flight rotation use the same pattern
// the teacher's internal/server package uses for graceful shutdown: a
// channel that is closed exactly once, so any number of goroutines can
// receive from it and unblock together the instant rotation finishes.
package keymanager

import (
	"encoding/base64"
	"sync"
	"time"

	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
	"github.com/jimzord12/hybrid-kem-go/internal/keystore"
	"github.com/jimzord12/hybrid-kem-go/internal/lifecycle"
	"github.com/jimzord12/hybrid-kem-go/internal/logger"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
	"github.com/jimzord12/hybrid-kem-go/internal/rotation"
)

// Config mirrors the spec's KeyManagerConfig: the enumerated options that
// govern generation, persistence, and rotation timing.
type Config struct {
	Preset                     preset.Preset
	CertPath                   string
	KeyExpiryMonths            int
	AutoGenerate               bool
	EnableFileBackup           bool
	RotationGracePeriodMinutes int
	RotationIntervalWeeks      int
}

// Status is a snapshot of the manager's externally observable state.
type Status struct {
	HasKeys       bool
	KeysValid     bool
	KeysExpired   bool
	IsRotating    bool
	CurrentVersion uint32
	CreatedAt     time.Time
	ExpiresAt     time.Time
	CertPath      string
	LastRotation  time.Time
}

// HealthCheck reports whether the manager is fit to serve requests.
type HealthCheck struct {
	Healthy bool
	Issues  []string
}

// rotationState tracks the single in-flight rotation, if any.
type rotationState struct {
	isRotating bool
	startedAt  time.Time
	previous   *keystore.KeyPair
	newKeys    *keystore.KeyPair
	done       chan struct{} // closed when the rotation completes
}

// Manager is the single process-wide key-lifecycle orchestrator.
type Manager struct {
	mu sync.Mutex

	cfg   Config
	log   *logger.Logger
	store *keystore.Store
	hist  *rotation.History
	lc    lifecycle.Lifecycle

	initialized bool
	current     *keystore.KeyPair
	rotation    rotationState

	graceTimer *time.Timer
}

// New constructs an uninitialized Manager. Call Initialize before using it.
func New(cfg Config, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		cfg: cfg,
		log: log,
	}
}

// Initialize validates cfg, ensures cert_path exists, loads or generates
// the current key pair, and validates it. Initialize is idempotent: a
// second call on an already-initialized manager is a no-op. Failure
// leaves the manager uninitialized; subsequent accessors fail fast.
func (m *Manager) Initialize() error {
	const op = "keymanager.Initialize"

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	if !m.cfg.Preset.Valid() {
		return hyerrors.New(hyerrors.KindKeyManagerInit, op, "invalid preset in key manager config")
	}
	if m.cfg.CertPath == "" {
		return hyerrors.New(hyerrors.KindKeyManagerInit, op, "cert_path must not be empty")
	}

	store, err := keystore.New(m.cfg.CertPath)
	if err != nil {
		return hyerrors.Wrap(hyerrors.KindKeyManagerInit, op, err, "failed to open key store")
	}
	m.store = store
	m.hist = rotation.New(m.cfg.CertPath)
	m.lc = lifecycle.New(m.cfg.KeyExpiryMonths)

	kp, err := m.loadOrGenerateLocked()
	if err != nil {
		return hyerrors.Wrap(hyerrors.KindKeyManagerInit, op, err, "failed to load or generate key pair")
	}

	result := lifecycle.Validate(kp, false)
	if !result.OK {
		return hyerrors.New(hyerrors.KindKeyManagerInit, op, "generated/loaded key pair failed validation")
	}

	m.current = &kp
	m.initialized = true

	m.log.WithKeyVersion(kp.Version).WithPreset(string(kp.Preset)).Info().Msg("key manager initialized")

	return nil
}

// loadOrGenerateLocked must be called with mu held.
func (m *Manager) loadOrGenerateLocked() (keystore.KeyPair, error) {
	const op = "keymanager.load_or_generate"

	kp, ok, err := m.store.Load(m.cfg.KeyExpiryMonths)
	if err != nil {
		return keystore.KeyPair{}, err
	}

	if ok {
		if kp.Version == 0 {
			v, err := m.hist.NextVersion()
			if err != nil {
				return keystore.KeyPair{}, err
			}
			kp.Version = v
		}
		return kp, nil
	}

	if !m.cfg.AutoGenerate {
		return keystore.KeyPair{}, hyerrors.New(hyerrors.KindKeyManagerInit, op, "no persisted keys and auto_generate is disabled")
	}

	generated, err := m.lc.Generate(m.cfg.Preset)
	if err != nil {
		return keystore.KeyPair{}, err
	}

	version, err := m.hist.NextVersion()
	if err != nil {
		return keystore.KeyPair{}, err
	}
	generated.Version = version

	if err := m.store.Save(generated); err != nil {
		return keystore.KeyPair{}, err
	}
	if err := m.hist.Append(generated.Version, generated.Preset, generated.CreatedAt, generated.ExpiresAt, rotation.InitialGeneration); err != nil {
		return keystore.KeyPair{}, err
	}

	return generated, nil
}

// CurrentPublicKey returns the current public key bytes, ensuring valid
// keys are in place first.
func (m *Manager) CurrentPublicKey() ([]byte, error) {
	kp, err := m.ensureValidKeys()
	if err != nil {
		return nil, err
	}
	return kp.PublicKey, nil
}

// CurrentPublicKeyBase64 returns the current public key, base64-encoded,
// as served over the /public-key HTTP endpoint.
func (m *Manager) CurrentPublicKeyBase64() (string, error) {
	pub, err := m.CurrentPublicKey()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(pub), nil
}

// CurrentSecretKey returns the current secret key bytes. Server-side only.
func (m *Manager) CurrentSecretKey() ([]byte, error) {
	kp, err := m.ensureValidKeys()
	if err != nil {
		return nil, err
	}
	return kp.SecretKey, nil
}

// DecryptionKeys returns the current key pair's secret key, plus the
// previous key pair's secret key if a rotation is within its grace window.
// Order: current first.
func (m *Manager) DecryptionKeys() ([][]byte, error) {
	if _, err := m.ensureValidKeys(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	keys := [][]byte{m.current.SecretKey}
	if m.rotation.previous != nil {
		keys = append(keys, m.rotation.previous.SecretKey)
	}
	return keys, nil
}

// ensureValidKeys awaits any in-flight rotation, triggers a new one if
// needed, and returns the resulting current key pair.
func (m *Manager) ensureValidKeys() (keystore.KeyPair, error) {
	const op = "keymanager.ensure_valid_keys"

	for {
		m.mu.Lock()
		if !m.initialized {
			m.mu.Unlock()
			return keystore.KeyPair{}, hyerrors.New(hyerrors.KindKeyManagerRetrieval, op, "key manager is not initialized")
		}

		if m.rotation.isRotating {
			done := m.rotation.done
			m.mu.Unlock()
			<-done
			continue
		}

		needsRotation := m.current == nil || lifecycle.IsExpired(*m.current, time.Now())
		if !needsRotation {
			kp := *m.current
			m.mu.Unlock()
			return kp, nil
		}
		m.mu.Unlock()

		if err := m.RotateKeys(rotation.ScheduledRotation); err != nil {
			return keystore.KeyPair{}, hyerrors.Wrap(hyerrors.KindKeyManagerRetrieval, op, err, "failed to rotate expired/missing keys")
		}
	}
}

// RotateKeys performs the 8-step rotation algorithm. If a rotation is
// already in progress, RotateKeys waits for it to complete and returns nil
// rather than starting a second one; an error from that in-flight rotation
// is returned only to the call that started it.
func (m *Manager) RotateKeys(reason rotation.Reason) error {
	const op = "keymanager.RotateKeys"

	m.mu.Lock()
	if m.rotation.isRotating {
		done := m.rotation.done
		m.mu.Unlock()
		<-done
		return nil
	}

	done := make(chan struct{})
	m.rotation = rotationState{
		isRotating: true,
		startedAt:  time.Now(),
		previous:   m.current,
		done:       done,
	}
	cfg := m.cfg
	previous := m.current
	m.mu.Unlock()

	rotateErr := m.performRotation(cfg, previous, reason)

	m.mu.Lock()
	if rotateErr == nil {
		m.current = m.rotation.newKeys
		m.rotation.isRotating = false
		m.scheduleGraceCleanupLocked()
	} else {
		m.rotation = rotationState{}
	}
	close(done)
	m.mu.Unlock()

	if rotateErr != nil {
		return hyerrors.Wrap(hyerrors.KindKeyManagerRotation, op, rotateErr, "rotation failed")
	}

	return nil
}

// performRotation executes steps 2-6 of the rotation algorithm. It stores
// the freshly generated key pair into m.rotation.newKeys on success so the
// caller can atomically publish it as current.
func (m *Manager) performRotation(cfg Config, previous *keystore.KeyPair, reason rotation.Reason) error {
	generated, err := m.lc.Generate(cfg.Preset)
	if err != nil {
		return err
	}

	if result := lifecycle.Validate(generated, true); !result.OK {
		return hyerrors.New(hyerrors.KindKeyManagerRotation, "keymanager.performRotation", "newly generated key pair failed validation")
	}

	version, err := m.hist.NextVersion()
	if err != nil {
		return err
	}
	generated.Version = version

	if cfg.EnableFileBackup && previous != nil {
		if err := m.store.BackupExpired(*previous); err != nil {
			m.log.WithKeyVersion(previous.Version).Warn().Err(err).Msg("failed to back up previous key pair; continuing rotation")
		}
	}

	if err := m.store.Save(generated); err != nil {
		return err
	}

	effectiveReason := reason
	if previous == nil {
		effectiveReason = rotation.InitialGeneration
	}
	if err := m.hist.Append(generated.Version, generated.Preset, generated.CreatedAt, generated.ExpiresAt, effectiveReason); err != nil {
		return err
	}

	m.log.WithKeyVersion(generated.Version).WithPreset(string(generated.Preset)).Info().
		Str("reason", string(effectiveReason)).Msg("key rotation completed")

	m.mu.Lock()
	m.rotation.newKeys = &generated
	m.mu.Unlock()

	return nil
}

// scheduleGraceCleanupLocked must be called with mu held. It arms a timer
// that clears rotation_state and zeroizes the previous key pair once the
// grace period elapses.
func (m *Manager) scheduleGraceCleanupLocked() {
	if m.graceTimer != nil {
		m.graceTimer.Stop()
	}

	grace := time.Duration(m.cfg.RotationGracePeriodMinutes) * time.Minute
	m.graceTimer = time.AfterFunc(grace, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.rotation.previous != nil {
			m.log.WithKeyVersion(m.rotation.previous.Version).Debug().Msg("grace period elapsed, zeroizing previous key pair")
			lifecycle.Zeroize(m.rotation.previous)
		}
		m.rotation = rotationState{}
	})
}

// Status returns a snapshot of the manager's externally observable state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Status{CertPath: m.cfg.CertPath, IsRotating: m.rotation.isRotating}
	if m.current == nil {
		return s
	}

	s.HasKeys = true
	result := lifecycle.Validate(*m.current, false)
	s.KeysValid = result.OK
	s.KeysExpired = lifecycle.IsExpired(*m.current, time.Now())
	s.CurrentVersion = m.current.Version
	s.CreatedAt = m.current.CreatedAt
	s.ExpiresAt = m.current.ExpiresAt
	s.LastRotation = m.current.LastRotation

	return s
}

// HealthCheck reports whether the manager is fit to serve requests,
// aggregating initialization state, key presence, rotation need, and any
// validation errors on the current key pair.
func (m *Manager) HealthCheck() HealthCheck {
	m.mu.Lock()
	initialized := m.initialized
	current := m.current
	m.mu.Unlock()

	var issues []string

	if !initialized {
		issues = append(issues, "key manager is not initialized")
		return HealthCheck{Healthy: false, Issues: issues}
	}

	if current == nil {
		issues = append(issues, "no current key pair")
		return HealthCheck{Healthy: false, Issues: issues}
	}

	if lifecycle.IsExpired(*current, time.Now()) {
		issues = append(issues, "current key pair needs rotation")
	}

	if result := lifecycle.Validate(*current, false); !result.OK {
		issues = append(issues, result.Errors...)
	}

	return HealthCheck{Healthy: len(issues) == 0, Issues: issues}
}
