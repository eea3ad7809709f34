// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package field

import (
	"errors"
	"fmt"
)

// ErrModelNotFound is returned when a table identity cannot be resolved from
// the registry. Resolution only fails with this error in strict mode;
// otherwise it falls back to the compiling query's own model.
var ErrModelNotFound = errors.New("model not found")

// Relation describes a named relation from one table to another, the
// counterpart of a foreign key in the host application's model layer.
type Relation struct {
	// Table is the name of the related table.
	Table string
}

// Table holds the metadata the compiler needs about one table. Tables are
// registered once at startup; the registry is read-only afterwards.
type Table struct {
	// Name is the table name as it appears in SQL.
	Name string
	// PrimaryKey is the primary key column name.
	PrimaryKey string
	// KeyOverride optionally names a different column as the search identity
	// key, taking precedence over PrimaryKey.
	KeyOverride string
	// Relations maps relation names to related tables.
	Relations map[string]Relation
}

// KeyColumn returns the identity-key column for the table.
func (t *Table) KeyColumn() string {
	if t.KeyOverride != "" {
		return t.KeyOverride
	}
	return t.PrimaryKey
}

// Registry is a write-once lookup table from table names to their metadata.
// It is populated at process start-up and safe for concurrent readers once
// populated.
type Registry struct {
	tables map[string]*Table
}

// NewRegistry builds a registry from the given tables.
func NewRegistry(tables ...Table) (*Registry, error) {
	r := &Registry{tables: map[string]*Table{}}
	for _, t := range tables {
		t := t
		if t.Name == "" {
			return nil, fmt.Errorf("table name is required")
		}
		if t.PrimaryKey == "" && t.KeyOverride == "" {
			return nil, fmt.Errorf("table %q needs a primary key or key override", t.Name)
		}
		if _, ok := r.tables[t.Name]; ok {
			return nil, fmt.Errorf("table %q registered twice", t.Name)
		}
		r.tables[t.Name] = &t
	}
	return r, nil
}

// Table looks up a table by name.
func (r *Registry) Table(name string) (*Table, error) {
	t, ok := r.tables[name]
	if !ok {
		return nil, fmt.Errorf("cannot resolve table %q: %w", name, ErrModelNotFound)
	}
	return t, nil
}

// Query describes the query an expression is being compiled into: the owning
// model and the alias map assigned by the embedding query compiler. A nil
// *Query is valid for expressions that only use bare or explicitly qualified
// fields.
type Query struct {
	registry *Registry
	model    string
	aliases  map[string]string
	strict   bool
}

// NewQuery returns a query context rooted at the named table.
func NewQuery(registry *Registry, model string) *Query {
	return &Query{registry: registry, model: model, aliases: map[string]string{}}
}

// WithAlias records that alias refers to table in the compiled query and
// returns the query for chaining.
func (q *Query) WithAlias(alias, table string) *Query {
	q.aliases[alias] = table
	return q
}

// Strict returns a copy of the query on which resolution misses return
// [ErrModelNotFound] instead of falling back to the query's own model.
func (q *Query) Strict() *Query {
	c := *q
	c.strict = true
	return &c
}

// Model returns the name of the query's owning table.
func (q *Query) Model() string {
	return q.model
}

// Registry returns the table registry the query resolves against.
func (q *Query) Registry() *Registry {
	return q.registry
}

// TableForAlias maps an alias from the query's alias map back to its table
// metadata. On a miss it falls back to the query's own model unless the query
// is strict.
func (q *Query) TableForAlias(alias string) (*Table, error) {
	name := alias
	if t, ok := q.aliases[alias]; ok {
		name = t
	}
	t, err := q.registry.Table(name)
	if err == nil {
		return t, nil
	}
	if q.strict {
		return nil, err
	}
	return q.registry.Table(q.model)
}

// KeyForAlias returns the identity key of the table an alias refers to,
// rendered under that alias. On a miss it falls back to the identity key of
// the query's own model unless the query is strict.
func (q *Query) KeyForAlias(alias string) (KeyField, error) {
	t, err := q.TableForAlias(alias)
	if err != nil {
		return KeyField{}, err
	}
	if name, ok := q.aliases[alias]; (ok && name == t.Name) || alias == t.Name {
		return KeyField{Table: alias, Column: t.KeyColumn()}, nil
	}
	return KeyField{Table: q.aliasFor(t.Name), Column: t.KeyColumn()}, nil
}

// aliasFor returns the alias the query assigned to the table, or the table
// name itself when no alias was assigned.
func (q *Query) aliasFor(table string) string {
	for alias, t := range q.aliases {
		if t == table && alias != table {
			return alias
		}
	}
	return table
}
