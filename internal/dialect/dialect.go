// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package dialect

import (
	"context"
	"sync"
)

// Schema names the schema prefix emitted in front of search function calls.
type Schema string

const (
	// Legacy is the schema prefix used by pg_search before 0.20.
	Legacy Schema = "paradedb"
	// Current is the schema prefix used by pg_search from 0.20 onwards.
	Current Schema = "pdb"
)

// versionThreshold is the first server version that ships the current schema.
// Version strings are compared lexicographically; pg_search reports
// zero-padded two-component prefixes so this matches numeric ordering.
const versionThreshold = "0.20"

// VersionProbe reports the version of the pg_search extension installed on
// the active connection.
type VersionProbe interface {
	Version(ctx context.Context) (string, error)
}

// Selector decides the schema prefix for each emitted function call. The
// server version is probed at most once per Selector and cached for its
// lifetime; the always-legacy function set and the force-current flag are
// fixed at construction.
//
// A Selector is safe for concurrent use.
type Selector struct {
	probe        VersionProbe
	forceCurrent bool
	legacyFuncs  map[string]bool

	once     sync.Once
	version  string
	probeErr error
}

// NewSelector returns a Selector backed by the given probe. A nil probe is
// allowed; without a probe and without forceCurrent the selector always
// chooses the legacy schema.
func NewSelector(probe VersionProbe, forceCurrent bool, legacyFuncs []string) *Selector {
	funcs := make(map[string]bool, len(legacyFuncs))
	for _, f := range legacyFuncs {
		funcs[f] = true
	}
	return &Selector{probe: probe, forceCurrent: forceCurrent, legacyFuncs: funcs}
}

// Schema returns the schema prefix to use for the named function. The rules
// apply in order: an explicit legacy override wins, then the configured
// always-legacy set, then the force-current flag, and finally the probed
// server version against the threshold.
func (s *Selector) Schema(ctx context.Context, function string, legacy bool) (Schema, error) {
	if legacy {
		return Legacy, nil
	}
	if s.legacyFuncs[function] {
		return Legacy, nil
	}
	if s.forceCurrent {
		return Current, nil
	}
	if s.probe == nil {
		return Legacy, nil
	}
	version, err := s.Version(ctx)
	if err != nil {
		return "", err
	}
	if version >= versionThreshold {
		return Current, nil
	}
	return Legacy, nil
}

// Version returns the probed server version, executing the probe on first
// call and caching the result for the lifetime of the Selector.
func (s *Selector) Version(ctx context.Context) (string, error) {
	s.once.Do(func() {
		s.version, s.probeErr = s.probe.Version(ctx)
	})
	return s.version, s.probeErr
}
