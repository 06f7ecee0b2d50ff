// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package rotation persists the append-only rotation history for a key
// store: one entry per generated key pair, plus derived statistics such as
// average key lifetime. Reads are memoized behind a short TTL so that
// repeated status checks don't re-read the file on every call.
package rotation

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jimzord12/hybrid-kem-go/internal/hyerrors"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
)

// Reason names why a rotation entry was recorded.
type Reason string

const (
	InitialGeneration Reason = "InitialGeneration"
	ScheduledRotation Reason = "ScheduledRotation"
	ManualRotation    Reason = "ManualRotation"
)

// cacheTTL bounds how long a read of the history file is reused before the
// next Stats/Entries call re-reads it from disk.
const cacheTTL = 5 * time.Minute

const historyFile = "rotation-history.json"

// Entry is one recorded key rotation.
type Entry struct {
	ID        string       `json:"id"`
	Version   uint32       `json:"version"`
	Preset    preset.Preset `json:"preset"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
	RotatedAt time.Time    `json:"rotated_at"`
	Reason    Reason       `json:"reason"`
}

// document is the on-disk shape of rotation-history.json.
type document struct {
	TotalRotations int       `json:"total_rotations"`
	Entries        []Entry   `json:"entries"`
	CreatedAt      time.Time `json:"created_at"`
	LastUpdated    time.Time `json:"last_updated"`
}

// Stats summarizes a rotation history for status reporting.
type Stats struct {
	TotalRotations        int
	RotationsThisYear     int
	RotationsThisMonth    int
	Oldest                *Entry
	Newest                *Entry
	AverageKeyLifetimeDays int
}

// History reads and appends rotation-history.json under a key store's
// cert_path, memoizing reads for cacheTTL.
type History struct {
	path string

	mu       sync.Mutex
	cached   document
	cachedAt time.Time
	loaded   bool
}

// New returns a History rooted at the rotation-history.json file inside
// certPath.
func New(certPath string) *History {
	return &History{path: filepath.Join(certPath, historyFile)}
}

// NextVersion returns max(entries.version) + 1, or 1 if the history is
// empty.
func (h *History) NextVersion() (uint32, error) {
	doc, err := h.read()
	if err != nil {
		return 0, err
	}
	var max uint32
	for _, e := range doc.Entries {
		if e.Version > max {
			max = e.Version
		}
	}
	return max + 1, nil
}

// Append records a new entry for the key pair described by version, p,
// createdAt and expiresAt, incrementing total_rotations and
// invalidating the read cache.
func (h *History) Append(version uint32, p preset.Preset, createdAt, expiresAt time.Time, reason Reason) error {
	const op = "rotation.Append"

	h.mu.Lock()
	defer h.mu.Unlock()

	doc, err := h.readLocked()
	if err != nil {
		return err
	}

	entry := Entry{
		ID:        uuid.NewString(),
		Version:   version,
		Preset:    p,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
		RotatedAt: createdAt,
		Reason:    reason,
	}

	doc.Entries = append(doc.Entries, entry)
	doc.TotalRotations++
	doc.LastUpdated = entry.RotatedAt
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = entry.RotatedAt
	}

	if err := h.write(doc); err != nil {
		return hyerrors.Wrap(hyerrors.KindKeyManagerStorage, op, err, "failed to persist rotation history")
	}

	h.cached = doc
	h.cachedAt = time.Now()
	h.loaded = true

	return nil
}

// Stats computes summary statistics over the current history.
func (h *History) Stats() (Stats, error) {
	doc, err := h.read()
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{TotalRotations: doc.TotalRotations}
	if len(doc.Entries) == 0 {
		return stats, nil
	}

	now := time.Now()
	var lifetimeSum float64
	for i, e := range doc.Entries {
		if e.RotatedAt.Year() == now.Year() {
			stats.RotationsThisYear++
			if e.RotatedAt.Month() == now.Month() {
				stats.RotationsThisMonth++
			}
		}
		if i > 0 {
			lifetimeSum += doc.Entries[i].CreatedAt.Sub(doc.Entries[i-1].CreatedAt).Seconds()
		}
	}

	oldest := doc.Entries[0]
	newest := doc.Entries[len(doc.Entries)-1]
	stats.Oldest = &oldest
	stats.Newest = &newest

	if n := len(doc.Entries); n > 1 {
		avgSeconds := lifetimeSum / float64(n-1)
		stats.AverageKeyLifetimeDays = int(math.Round(avgSeconds / 86400))
	}

	return stats, nil
}

// Entries returns a copy of every recorded entry, ordered by rotated_at
// ascending.
func (h *History) Entries() ([]Entry, error) {
	doc, err := h.read()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, len(doc.Entries))
	copy(out, doc.Entries)
	return out, nil
}

func (h *History) read() (document, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.readLocked()
}

// readLocked returns the cached document if still within cacheTTL,
// otherwise re-reads rotation-history.json. A parse failure or missing
// file is non-fatal: it yields an empty history so the next Append
// recreates the file.
func (h *History) readLocked() (document, error) {
	if h.loaded && time.Since(h.cachedAt) < cacheTTL {
		return h.cached, nil
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			doc := document{}
			h.cached = doc
			h.cachedAt = time.Now()
			h.loaded = true
			return doc, nil
		}
		return document{}, hyerrors.Wrap(hyerrors.KindKeyManagerStorage, "rotation.read", err, "failed to read rotation history")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = document{}
	}

	h.cached = doc
	h.cachedAt = time.Now()
	h.loaded = true

	return doc, nil
}

func (h *History) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(h.path)
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
	if err := os.Rename(tmpPath, h.path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return nil
}
