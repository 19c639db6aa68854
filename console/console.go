// BCM5719 APE firmware
// https://github.com/broadcom/bcm5719-ape
//
// Copyright (c) The BCM5719-APE Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package console provides the orchestration layer's logging, mirroring
// the teacher's example.go convention of a single, flag-less log
// destination, plus rate limiting for diagnostics that the original
// firmware prints unconditionally on every iteration of a stuck state
// (spec §4.A).
package console

import (
	"log"
	"sync"

	"golang.org/x/time/rate"
)

func init() {
	log.SetFlags(0)
}

// Printf logs an unconditional diagnostic line.
func Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// Limiter throttles a repeated diagnostic to at most one line per period,
// keyed by name, so a wedged pass-through path or a sustained stream of
// oversized/dropped frames doesn't flood the console once per main-loop
// iteration.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

// NewLimiter returns a Limiter allowing `burst` lines immediately and then
// one line every 1/every seconds, per distinct key.
func NewLimiter(every rate.Limit, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		every:    every,
		burst:    burst,
	}
}

// Drop logs a diagnostic under key, silently skipping the line if key has
// exceeded its rate.
func (l *Limiter) Drop(key, format string, args ...interface{}) {
	l.mu.Lock()
	rl, ok := l.limiters[key]
	if !ok {
		rl = rate.NewLimiter(l.every, l.burst)
		l.limiters[key] = rl
	}
	l.mu.Unlock()

	if rl.Allow() {
		log.Printf(format, args...)
	}
}
