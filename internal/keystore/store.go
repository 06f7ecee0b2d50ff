// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
)

const (
	publicKeyFile  = "public-key.bin"
	privateKeyFile = "private-key.bin"
	metadataFile   = "key-metadata.json"
	backupDirName  = "backup"

	// backupRetention is how long a YYYY-MM stamped backup file is kept
	// before CleanupOldBackups removes it.
	backupRetention = 3 * 30 * 24 * time.Hour
)

// Store persists a single KeyPair's binaries and metadata under CertPath,
// plus a backup directory of superseded key material.
type Store struct {
	CertPath string
}

// New validates certPath and constructs a [Store] rooted there, creating
// the directory (and its backup/ subdirectory) if it does not yet exist.
//
// certPath must be non-empty, must not contain ".." traversal segments, and
// its resolved absolute form must lie within the process's current working
// directory.
func New(certPath string) (*Store, error) {
	const op = "keystore.New"

	if err := validateCertPath(certPath, op); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(certPath, backupDirName), 0o700); err != nil {
		return nil, hyerrors.Wrap(hyerrors.KindKeyManagerStorage, op, err, "failed to create cert_path directory")
	}

	return &Store{CertPath: certPath}, nil
}

func validateCertPath(certPath, op string) error {
	if certPath == "" {
		return hyerrors.New(hyerrors.KindValidation, op, "cert_path must not be empty")
	}
	if strings.Contains(certPath, "..") {
		return hyerrors.New(hyerrors.KindValidation, op, "cert_path must not contain '..' traversal")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return hyerrors.Wrap(hyerrors.KindValidation, op, err, "failed to resolve current working directory")
	}

	abs, err := filepath.Abs(certPath)
	if err != nil {
		return hyerrors.Wrap(hyerrors.KindValidation, op, err, "failed to resolve cert_path")
	}

	rel, err := filepath.Rel(cwd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return hyerrors.New(hyerrors.KindValidation, op, "cert_path must resolve within the current working directory")
	}

	return nil
}

func (s *Store) publicKeyPath() string  { return filepath.Join(s.CertPath, publicKeyFile) }
func (s *Store) privateKeyPath() string { return filepath.Join(s.CertPath, privateKeyFile) }
func (s *Store) metadataPath() string   { return filepath.Join(s.CertPath, metadataFile) }
func (s *Store) backupDir() string      { return filepath.Join(s.CertPath, backupDirName) }

// Save atomically writes the public key, private key, and metadata files.
// The private key is written with mode 0600 before the other two files so
// that no concurrent reader ever observes a world-readable secret key.
func (s *Store) Save(kp KeyPair) error {
	const op = "keystore.Save"

	if err := writeFileAtomic(s.privateKeyPath(), kp.SecretKey, 0o600); err != nil {
		return hyerrors.Wrap(hyerrors.KindKeyManagerStorage, op, err, "failed to write private key").WithPreset(string(kp.Preset))
	}
	if err := writeFileAtomic(s.publicKeyPath(), kp.PublicKey, 0o644); err != nil {
		return hyerrors.Wrap(hyerrors.KindKeyManagerStorage, op, err, "failed to write public key").WithPreset(string(kp.Preset))
	}

	meta := Metadata{
		Preset:         kp.Preset,
		Version:        kp.Version,
		CreatedAt:      kp.CreatedAt,
		LastRotation:   kp.LastRotation,
		PublicKeyPath:  s.publicKeyPath(),
		PrivateKeyPath: s.privateKeyPath(),
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return hyerrors.Wrap(hyerrors.KindKeyManagerStorage, op, err, "failed to marshal metadata").WithPreset(string(kp.Preset))
	}
	if err := writeFileAtomic(s.metadataPath(), metaBytes, 0o644); err != nil {
		return hyerrors.Wrap(hyerrors.KindKeyManagerStorage, op, err, "failed to write metadata").WithPreset(string(kp.Preset))
	}

	return nil
}

// Load reads back the persisted key pair. It returns ok=false (with a nil
// error) if any of the three files is missing, either binary is empty, or
// the metadata lacks preset, created_at, or version — all non-fatal
// conditions that tell the caller to fall back to generation.
//
// expiresAt is recomputed from createdAt plus keyExpiryMonths calendar
// months, since expires_at is not itself persisted.
func (s *Store) Load(keyExpiryMonths int) (KeyPair, bool, error) {
	const op = "keystore.Load"

	pub, err := os.ReadFile(s.publicKeyPath())
	if err != nil || len(pub) == 0 {
		return KeyPair{}, false, nil
	}
	priv, err := os.ReadFile(s.privateKeyPath())
	if err != nil || len(priv) == 0 {
		return KeyPair{}, false, nil
	}
	metaBytes, err := os.ReadFile(s.metadataPath())
	if err != nil {
		return KeyPair{}, false, nil
	}

	var meta Metadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return KeyPair{}, false, nil
	}
	if meta.Preset == "" || meta.CreatedAt.IsZero() || meta.Version == 0 {
		return KeyPair{}, false, nil
	}

	kp := KeyPair{
		Preset:       meta.Preset,
		PublicKey:    pub,
		SecretKey:    priv,
		Version:      meta.Version,
		CreatedAt:    meta.CreatedAt,
		LastRotation: meta.LastRotation,
		ExpiresAt:    meta.CreatedAt.AddDate(0, keyExpiryMonths, 0),
	}

	return kp, true, nil
}

// BackupExpired copies both binaries of kp into backup/ with the current
// year-month suffix (e.g. pub-key-expired-2026-07.bin). Failure is
// non-fatal by contract: callers should warn and continue rotation rather
// than abort.
func (s *Store) BackupExpired(kp KeyPair) error {
	const op = "keystore.BackupExpired"

	stamp := time.Now().Format("2006-01")

	pubDst := filepath.Join(s.backupDir(), fmt.Sprintf("pub-key-expired-%s.bin", stamp))
	privDst := filepath.Join(s.backupDir(), fmt.Sprintf("priv-key-expired-%s.bin", stamp))

	if err := writeFileAtomic(pubDst, kp.PublicKey, 0o644); err != nil {
		return hyerrors.Wrap(hyerrors.KindKeyManagerStorage, op, err, "failed to back up public key").WithPreset(string(kp.Preset))
	}
	if err := writeFileAtomic(privDst, kp.SecretKey, 0o600); err != nil {
		return hyerrors.Wrap(hyerrors.KindKeyManagerStorage, op, err, "failed to back up private key").WithPreset(string(kp.Preset))
	}

	return nil
}

// CleanupOldBackups deletes backup files whose YYYY-MM stamp is older than
// three months.
func (s *Store) CleanupOldBackups() error {
	const op = "keystore.CleanupOldBackups"

	entries, err := os.ReadDir(s.backupDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return hyerrors.Wrap(hyerrors.KindKeyManagerStorage, op, err, "failed to list backup directory")
	}

	cutoff := time.Now().Add(-backupRetention)

	for _, entry := range entries {
		stamp := extractYearMonth(entry.Name())
		if stamp == "" {
			continue
		}
		t, err := time.Parse("2006-01", stamp)
		if err != nil {
			continue
		}
		if t.Before(cutoff) {
			_ = os.Remove(filepath.Join(s.backupDir(), entry.Name()))
		}
	}

	return nil
}

// extractYearMonth pulls the "YYYY-MM" stamp out of a backup file name
// such as "pub-key-expired-2026-07.bin". Returns "" if the name does not
// match the expected shape.
func extractYearMonth(name string) string {
	name = strings.TrimSuffix(name, ".bin")
	parts := strings.Split(name, "-")
	if len(parts) < 2 {
		return ""
	}
	year, month := parts[len(parts)-2], parts[len(parts)-1]
	if len(year) != 4 || len(month) != 2 {
		return ""
	}
	if _, err := strconv.Atoi(year); err != nil {
		return ""
	}
	if _, err := strconv.Atoi(month); err != nil {
		return ""
	}
	return year + "-" + month
}

// writeFileAtomic writes data to a temp file in the same directory as path
// and renames it into place, so a concurrent reader never observes a
// partially written file.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return nil
}
