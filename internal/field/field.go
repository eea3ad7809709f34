// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package field

import (
	"fmt"
	"strings"
)

// Ref is a reference to a column used inside a search expression. The three
// implementations are [Name] for bare column names, [Path] for symbolic
// references through registered relations, and [TableField] for explicitly
// qualified columns.
type Ref interface {
	ref()
}

// Name is a bare column name. It is emitted unchanged and carries no table
// information.
type Name string

func (Name) ref() {}

// Path is a symbolic reference through one or more relations, written with
// double underscores, for example "user__date_joined". It is resolved against
// the alias map of the compiling query.
type Path string

func (Path) ref() {}

// parts splits the path into relation names and the final column name.
func (p Path) parts() (relations []string, column string) {
	segs := strings.Split(string(p), "__")
	return segs[:len(segs)-1], segs[len(segs)-1]
}

// TableField is a column qualified with an explicit table, optionally
// carrying its own identity-key descriptor.
type TableField struct {
	// Table is the table or alias the column belongs to.
	Table string
	// Column is the column name.
	Column string
	// Key optionally overrides the identity key of the table. When nil the
	// table's registered key column is used, falling back to the column
	// itself.
	Key *KeyField
}

func (TableField) ref() {}

// SQL returns the qualified column reference.
func (tf TableField) SQL() string {
	return tf.Table + "." + tf.Column
}

// KeyField pairs a table identity with its uniqueness column. It is the
// left-hand operand of a match-operator predicate.
type KeyField struct {
	// Table is the table or alias name.
	Table string
	// Column is the identity-key column, usually the primary key.
	Column string
}

// String returns the qualified identity-key column.
func (k KeyField) String() string {
	return k.Table + "." + k.Column
}

// AsRef converts a caller-supplied field value into a [Ref]. Strings become
// bare names; Ref values pass through unchanged.
func AsRef(v any) (Ref, error) {
	switch f := v.(type) {
	case nil:
		return nil, fmt.Errorf("need field reference, got nil")
	case Ref:
		return f, nil
	case string:
		return Name(f), nil
	default:
		return nil, fmt.Errorf("need field reference, got %T", v)
	}
}

// ParseKeyField parses a "table.column" string into a [KeyField].
func ParseKeyField(s string) (KeyField, error) {
	s = strings.ReplaceAll(s, `"`, "")
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return KeyField{}, fmt.Errorf("need key field in table.column form, got %q", s)
	}
	return KeyField{Table: parts[0], Column: parts[1]}, nil
}
