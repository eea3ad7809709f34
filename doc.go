/*
Package paradedb compiles search expressions into the SQL understood by the
ParadeDB pg_search Postgres extension.

An expression is a tree of predicate, scoring and aggregation nodes. Compiling
a tree produces one SQL fragment plus its ordered bound parameters, ready to
be embedded in a larger statement:

	sql, params, err := paradedb.Compile(ctx,
		&paradedb.Match{Field: "title", Value: "python"},
		paradedb.WithMatchOp())
	// sql:    id @@@ paradedb.match(title, $1, ...)
	// params: []any{"python", ...}

# Fields and tables

Fields are referenced three ways: a bare column name (a plain string), an
explicitly qualified [TableField], or a symbolic path through registered
relations written with double underscores and built with [F]:

	paradedb.F("user__date_joined")

Paths resolve against a [Registry] of table metadata and the alias map of the
compiling [Query]. The registry is populated once at start-up and read-only
afterwards. The resolved table also supplies the identity key, the
"table.primary_key" column placed on the left of the @@@ match operator when
an expression is compiled as an outermost filter.

# Dialects

pg_search renamed its SQL schema from "paradedb" to "pdb" in version 0.20,
changing function signatures along the way. The [Selector] decides per
function which schema to emit, driven by configuration and a server version
probe that runs at most once per process. See [Config] for the knobs:
functions pinned to the legacy schema, a force-current override, and strict
field resolution.

# Lookups

[Translate] maps an operator name and a right-hand value to a compiled
expression, the way a query-builder layer would:

	sql, params, err := paradedb.Translate(ctx, "term", "rating", 5,
		paradedb.WithQuery(q))

# Indexes

[Bm25Index] compiles a full-text index definition, including per-field
tokenizer and storage configuration, into one CREATE INDEX statement.
*/
package paradedb
