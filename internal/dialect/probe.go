// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package dialect

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// versionQuery is the fixed introspection statement used to discover the
// installed pg_search version.
const versionQuery = "SELECT version FROM paradedb.version_info()"

// PGProbe probes the pg_search version over a pgx connection pool.
type PGProbe struct {
	Pool *pgxpool.Pool
}

// Version runs the introspection statement and returns the reported version
// string.
func (p *PGProbe) Version(ctx context.Context) (string, error) {
	var version string
	if err := p.Pool.QueryRow(ctx, versionQuery).Scan(&version); err != nil {
		return "", fmt.Errorf("cannot probe pg_search version: %w", err)
	}
	return version, nil
}
