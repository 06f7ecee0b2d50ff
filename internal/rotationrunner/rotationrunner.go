// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package rotationrunner schedules periodic key rotation. It implements the
// teacher's Worker interface (a single Run method, expected to block or
// spawn its own goroutine) so it can be dropped into the same aggregate the
// teacher uses to start all of a process's background workers together.
package rotationrunner

import (
	"time"

	"github.com/jimzord12/hybrid-kem-go/internal/keymanager"
	"github.com/jimzord12/hybrid-kem-go/internal/logger"
	"github.com/jimzord12/hybrid-kem-go/internal/rotation"
)

// Runner invokes Manager.RotateKeys on a fixed interval derived from
// rotation_interval_weeks.
type Runner struct {
	manager  *keymanager.Manager
	interval time.Duration
	logger   *logger.Logger

	stop chan struct{}
}

// New constructs a Runner that rotates keys every intervalWeeks weeks.
func New(manager *keymanager.Manager, intervalWeeks int, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	if intervalWeeks <= 0 {
		intervalWeeks = 1
	}
	return &Runner{
		manager:  manager,
		interval: time.Duration(intervalWeeks) * 7 * 24 * time.Hour,
		logger:   log,
		stop:     make(chan struct{}),
	}
}

// Run blocks, triggering a scheduled rotation every interval until Stop is
// called. It satisfies the rest of the service's Worker interface.
func (r *Runner) Run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.manager.RotateKeys(rotation.ScheduledRotation); err != nil {
				r.logger.Error().Err(err).Msg("scheduled key rotation failed")
			}
		case <-r.stop:
			return
		}
	}
}

// Stop signals Run to return. Safe to call once.
func (r *Runner) Stop() {
	close(r.stop)
}
