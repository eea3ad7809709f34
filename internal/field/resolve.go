// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package field

import (
	"fmt"
)

// Resolve reduces a field reference to its display SQL and, where one can be
// inferred, the identity key of the table it belongs to.
//
// Bare names are returned unchanged with no identity-key inference. Qualified
// table fields use their own table and column without consulting the query.
// Symbolic paths are walked through the registered relations of the query's
// model and rendered with the alias the query assigned to the related table.
func Resolve(ref Ref, q *Query) (string, *KeyField, error) {
	switch f := ref.(type) {
	case Name:
		return string(f), nil, nil
	case TableField:
		key := f.Key
		if key == nil {
			key = &KeyField{Table: f.Table, Column: f.Column}
		}
		return f.SQL(), key, nil
	case Path:
		return resolvePath(f, q)
	default:
		return "", nil, fmt.Errorf("unsupported field reference %T", ref)
	}
}

// resolvePath walks a symbolic path through the query's relations.
func resolvePath(p Path, q *Query) (string, *KeyField, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot resolve field path %q without a query", p)
	}
	relations, column := p.parts()

	table, err := q.registry.Table(q.model)
	if err != nil {
		return "", nil, err
	}
	for _, name := range relations {
		rel, ok := table.Relations[name]
		if !ok {
			if q.strict {
				return "", nil, fmt.Errorf("cannot resolve relation %q of table %q: %w", name, table.Name, ErrModelNotFound)
			}
			// Resolver miss: degrade to the query's own model.
			table, err = q.registry.Table(q.model)
			if err != nil {
				return "", nil, err
			}
			key := &KeyField{Table: q.aliasFor(table.Name), Column: table.KeyColumn()}
			return column, key, nil
		}
		table, err = q.registry.Table(rel.Table)
		if err != nil {
			return "", nil, err
		}
	}

	alias := q.aliasFor(table.Name)
	key := &KeyField{Table: alias, Column: table.KeyColumn()}
	return alias + "." + column, key, nil
}

// KeyForTable returns the identity key of the named table rendered under the
// given alias. The alias may equal the table name.
func KeyForTable(registry *Registry, table, alias string) (KeyField, error) {
	t, err := registry.Table(table)
	if err != nil {
		return KeyField{}, err
	}
	if alias == "" {
		alias = t.Name
	}
	return KeyField{Table: alias, Column: t.KeyColumn()}, nil
}
