// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rahulsingh3292/paradedb-go/internal/field"
)

// CreateExtensionSQL returns the statement installing the search extension.
func CreateExtensionSQL() string {
	return "CREATE EXTENSION IF NOT EXISTS pg_search"
}

// record modes for text and JSON field configurations.
const (
	RecordPosition = "position"
	RecordFreq     = "freq"
	RecordBasic    = "basic"
)

var recordModes = map[string]bool{
	RecordPosition: true, RecordFreq: true, RecordBasic: true,
}

// normalizers for text and JSON field configurations.
const (
	NormalizerRaw       = "raw"
	NormalizerLowercase = "lowercase"
)

var normalizers = map[string]bool{
	NormalizerRaw: true, NormalizerLowercase: true,
}

// TextFieldConfig configures how one text field is indexed. Use
// [NewTextFieldConfig] to get the defaults, then adjust the exported knobs.
type TextFieldConfig struct {
	Field      string
	Fast       bool
	Tokenizer  *Tokenizer
	Normalizer string
	Record     string
	Indexed    bool
	Fieldnorms bool
	// Column overrides the stored column name when the field is an
	// expression.
	Column string
}

// NewTextFieldConfig returns a text field configuration with the defaults:
// fast, indexed, fieldnorms, positional record, raw normalizer.
func NewTextFieldConfig(fieldName string) *TextFieldConfig {
	return &TextFieldConfig{
		Field:      fieldName,
		Fast:       true,
		Normalizer: NormalizerRaw,
		Record:     RecordPosition,
		Indexed:    true,
		Fieldnorms: true,
	}
}

func (c *TextFieldConfig) config() (map[string]any, error) {
	if c.Record != "" && !recordModes[c.Record] {
		return nil, fmt.Errorf("invalid record mode %q for field %q", c.Record, c.Field)
	}
	if c.Normalizer != "" && !normalizers[c.Normalizer] {
		return nil, fmt.Errorf("invalid normalizer %q for field %q", c.Normalizer, c.Field)
	}
	m := map[string]any{
		"fast":       c.Fast,
		"indexed":    c.Indexed,
		"fieldnorms": c.Fieldnorms,
		"record":     c.Record,
	}
	if c.Tokenizer != nil {
		m["tokenizer"] = c.Tokenizer.JSON()
	}
	if c.Normalizer != "" {
		m["normalizer"] = c.Normalizer
	}
	if c.Column != "" {
		m["column"] = c.Column
	}
	return m, nil
}

// JSONFieldConfig configures how one JSON field is indexed. It carries the
// text knobs plus dotted-path expansion. Use [NewJSONFieldConfig].
type JSONFieldConfig struct {
	TextFieldConfig
	ExpandDots bool
}

// NewJSONFieldConfig returns a JSON field configuration with the defaults:
// fast, indexed, fieldnorms, positional record, expanded dots, and no
// normalizer.
func NewJSONFieldConfig(fieldName string) *JSONFieldConfig {
	c := NewTextFieldConfig(fieldName)
	c.Normalizer = ""
	return &JSONFieldConfig{TextFieldConfig: *c, ExpandDots: true}
}

func (c *JSONFieldConfig) config() (map[string]any, error) {
	m, err := c.TextFieldConfig.config()
	if err != nil {
		return nil, err
	}
	m["expand_dots"] = c.ExpandDots
	return m, nil
}

// ScalarFieldConfig configures how one numeric, boolean or datetime field is
// indexed. Use [NewScalarFieldConfig].
type ScalarFieldConfig struct {
	Field   string
	Fast    bool
	Indexed bool
	Column  string
}

// NewScalarFieldConfig returns a scalar field configuration with the
// defaults: fast and indexed.
func NewScalarFieldConfig(fieldName string) *ScalarFieldConfig {
	return &ScalarFieldConfig{Field: fieldName, Fast: true, Indexed: true}
}

func (c *ScalarFieldConfig) config() (map[string]any, error) {
	m := map[string]any{"fast": c.Fast, "indexed": c.Indexed}
	if c.Column != "" {
		m["column"] = c.Column
	}
	return m, nil
}

// FieldConfigs groups the per-type field configurations of one index. Empty
// categories are left out of the emitted WITH clause entirely.
type FieldConfigs struct {
	Text     []*TextFieldConfig
	JSON     []*JSONFieldConfig
	Numeric  []*ScalarFieldConfig
	Boolean  []*ScalarFieldConfig
	Datetime []*ScalarFieldConfig
}

// IndexExpression is an index entry built from an expression rather than a
// plain column: a field reference with an optional cast suffix.
type IndexExpression struct {
	Field any
	// Cast is the cast type, with or without a leading "::".
	Cast string
}

func (e IndexExpression) sql(q *Query) (string, error) {
	ref, err := field.AsRef(e.Field)
	if err != nil {
		return "", err
	}
	display, _, err := field.Resolve(ref, q)
	if err != nil {
		return "", err
	}
	cast := strings.TrimPrefix(e.Cast, "::")
	if cast != "" {
		return "(" + display + "::" + cast + ")", nil
	}
	return "(" + display + ")", nil
}

// Bm25Index describes one named full-text index over a table: the ordered
// indexed fields or expressions, the per-type field configurations, the
// identity-key column, and any extra WITH options appended verbatim. Use
// [NewBm25Index]; the name and table are mandatory.
type Bm25Index struct {
	Name  string
	Table string
	// Fields holds plain column names (string) or [IndexExpression] entries.
	Fields  []any
	Configs FieldConfigs
	// KeyField is the identity-key column; empty means the table's
	// registered key, falling back to "id".
	KeyField string
	// WithExtra is appended to the WITH clause as key=value pairs, in key
	// order.
	WithExtra map[string]string
}

// NewBm25Index validates and returns an index definition.
func NewBm25Index(ix Bm25Index) (*Bm25Index, error) {
	if ix.Name == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if ix.Table == "" {
		return nil, fmt.Errorf("index table is required")
	}
	if len(ix.Fields) == 0 {
		return nil, fmt.Errorf("index %q needs at least one field", ix.Name)
	}
	return &ix, nil
}

// CreateSQL compiles the definition into one CREATE INDEX statement. The
// query context, which may be nil, resolves cross-table expression entries
// and supplies the default identity key.
func (ix *Bm25Index) CreateSQL(q *Query) (string, error) {
	if ix.Name == "" || ix.Table == "" || len(ix.Fields) == 0 {
		return "", fmt.Errorf("index needs a name, a table and at least one field")
	}
	entries := make([]string, len(ix.Fields))
	for i, f := range ix.Fields {
		switch e := f.(type) {
		case string:
			entries[i] = e
		case IndexExpression:
			sql, err := e.sql(q)
			if err != nil {
				return "", err
			}
			entries[i] = sql
		case *IndexExpression:
			sql, err := e.sql(q)
			if err != nil {
				return "", err
			}
			entries[i] = sql
		default:
			return "", fmt.Errorf("invalid index field type %T", f)
		}
	}

	withParts := []string{"key_field=" + ix.keyField(q)}
	keys := make([]string, 0, len(ix.WithExtra))
	for k := range ix.WithExtra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		withParts = append(withParts, k+"="+ix.WithExtra[k])
	}
	for _, cat := range []struct {
		name    string
		configs []fieldConfig
	}{
		{"text_fields", textConfigs(ix.Configs.Text)},
		{"json_fields", jsonConfigs(ix.Configs.JSON)},
		{"numeric_fields", scalarConfigs(ix.Configs.Numeric)},
		{"boolean_fields", scalarConfigs(ix.Configs.Boolean)},
		{"datetime_fields", scalarConfigs(ix.Configs.Datetime)},
	} {
		if len(cat.configs) == 0 {
			continue
		}
		doc, err := configJSON(cat.configs)
		if err != nil {
			return "", err
		}
		withParts = append(withParts, cat.name+"='"+doc+"'")
	}

	return fmt.Sprintf("CREATE INDEX %s ON %s USING bm25 (%s) WITH (%s)",
		ix.Name, ix.Table, strings.Join(entries, ", "), strings.Join(withParts, ", ")), nil
}

// keyField picks the identity-key column: the explicit one, the registered
// key of the owning table, then "id".
func (ix *Bm25Index) keyField(q *Query) string {
	if ix.KeyField != "" {
		return ix.KeyField
	}
	if q != nil {
		if t, err := q.Registry().Table(ix.Table); err == nil {
			return t.KeyColumn()
		}
	}
	return "id"
}

// fieldConfig is the common shape of a per-field configuration entry.
type fieldConfig interface {
	config() (map[string]any, error)
	fieldName() string
}

func (c *TextFieldConfig) fieldName() string   { return c.Field }
func (c *ScalarFieldConfig) fieldName() string { return c.Field }

func textConfigs(cs []*TextFieldConfig) []fieldConfig {
	out := make([]fieldConfig, len(cs))
	for i, c := range cs {
		out[i] = c
	}
	return out
}

func jsonConfigs(cs []*JSONFieldConfig) []fieldConfig {
	out := make([]fieldConfig, len(cs))
	for i, c := range cs {
		out[i] = c
	}
	return out
}

func scalarConfigs(cs []*ScalarFieldConfig) []fieldConfig {
	out := make([]fieldConfig, len(cs))
	for i, c := range cs {
		out[i] = c
	}
	return out
}

// configJSON serializes one configuration category to the JSON document
// embedded in the WITH clause, keyed by field name.
func configJSON(configs []fieldConfig) (string, error) {
	m := make(map[string]any, len(configs))
	for _, c := range configs {
		cfg, err := c.config()
		if err != nil {
			return "", err
		}
		m[c.fieldName()] = cfg
	}
	doc, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(doc), nil
}
