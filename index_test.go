// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb_test

import (
	"encoding/json"
	"strings"

	. "gopkg.in/check.v1"

	paradedb "github.com/rahulsingh3292/paradedb-go"
)

type IndexSuite struct{}

var _ = Suite(&IndexSuite{})

func (s *IndexSuite) TestCreateExtensionSQL(c *C) {
	c.Assert(paradedb.CreateExtensionSQL(), Equals,
		"CREATE EXTENSION IF NOT EXISTS pg_search")
}

func (s *IndexSuite) TestCreateSQL(c *C) {
	ix, err := paradedb.NewBm25Index(paradedb.Bm25Index{
		Name:  "articles_idx",
		Table: "articles",
		Fields: []any{
			"id",
			paradedb.IndexExpression{Field: "title", Cast: "::text"},
		},
	})
	c.Assert(err, IsNil)
	sql, err := ix.CreateSQL(nil)
	c.Assert(err, IsNil)
	c.Assert(sql, Equals,
		"CREATE INDEX articles_idx ON articles USING bm25 (id, (title::text)) WITH (key_field=id)")
}

func (s *IndexSuite) TestCreateSQLKeyField(c *C) {
	registry := articlesRegistry(c)
	q := paradedb.NewQuery(registry, "articles")

	// The registered key of the owning table is picked up through the query.
	ix, err := paradedb.NewBm25Index(paradedb.Bm25Index{
		Name:   "articles_idx",
		Table:  "articles",
		Fields: []any{"title"},
	})
	c.Assert(err, IsNil)
	sql, err := ix.CreateSQL(q)
	c.Assert(err, IsNil)
	c.Assert(sql, Equals,
		"CREATE INDEX articles_idx ON articles USING bm25 (title) WITH (key_field=id)")

	// An explicit key wins over the registry.
	ix.KeyField = "slug"
	sql, err = ix.CreateSQL(q)
	c.Assert(err, IsNil)
	c.Assert(sql, Equals,
		"CREATE INDEX articles_idx ON articles USING bm25 (title) WITH (key_field=slug)")
}

func (s *IndexSuite) TestCreateSQLWithExtra(c *C) {
	ix, err := paradedb.NewBm25Index(paradedb.Bm25Index{
		Name:   "articles_idx",
		Table:  "articles",
		Fields: []any{"title"},
		WithExtra: map[string]string{
			"target_segment_count": "8",
			"layer_sizes":          "'10kb, 100kb'",
		},
	})
	c.Assert(err, IsNil)
	sql, err := ix.CreateSQL(nil)
	c.Assert(err, IsNil)
	c.Assert(sql, Equals,
		"CREATE INDEX articles_idx ON articles USING bm25 (title) "+
			"WITH (key_field=id, layer_sizes='10kb, 100kb', target_segment_count=8)")
}

func (s *IndexSuite) TestCreateSQLFieldConfigs(c *C) {
	tokenizer, err := paradedb.NewTokenizer(paradedb.Tokenizer{
		Kind:    paradedb.TokenizerNGram,
		MinGram: 2,
		MaxGram: 4,
	})
	c.Assert(err, IsNil)

	title := paradedb.NewTextFieldConfig("title")
	title.Tokenizer = tokenizer
	meta := paradedb.NewJSONFieldConfig("metadata")
	rating := paradedb.NewScalarFieldConfig("rating")

	ix, err := paradedb.NewBm25Index(paradedb.Bm25Index{
		Name:   "articles_idx",
		Table:  "articles",
		Fields: []any{"id", "title", "metadata", "rating"},
		Configs: paradedb.FieldConfigs{
			Text:    []*paradedb.TextFieldConfig{title},
			JSON:    []*paradedb.JSONFieldConfig{meta},
			Numeric: []*paradedb.ScalarFieldConfig{rating},
		},
	})
	c.Assert(err, IsNil)
	sql, err := ix.CreateSQL(nil)
	c.Assert(err, IsNil)

	// The WITH clause lists the categories in a fixed order and leaves the
	// empty ones out.
	c.Assert(sql, Matches,
		`CREATE INDEX articles_idx ON articles USING bm25 \(id, title, metadata, rating\) `+
			`WITH \(key_field=id, text_fields='.+', json_fields='.+', numeric_fields='.+'\)`)

	// The embedded documents are well-formed JSON keyed by field name.
	c.Assert(withDocument(c, sql, "text_fields"), DeepEquals, map[string]any{
		"title": map[string]any{
			"fast":       true,
			"indexed":    true,
			"fieldnorms": true,
			"record":     "position",
			"normalizer": "raw",
			"tokenizer": map[string]any{
				"type":        "ngram",
				"min_gram":    float64(2),
				"max_gram":    float64(4),
				"prefix_only": false,
			},
		},
	})
	c.Assert(withDocument(c, sql, "json_fields"), DeepEquals, map[string]any{
		"metadata": map[string]any{
			"fast":        true,
			"indexed":     true,
			"fieldnorms":  true,
			"record":      "position",
			"expand_dots": true,
		},
	})
	c.Assert(withDocument(c, sql, "numeric_fields"), DeepEquals, map[string]any{
		"rating": map[string]any{"fast": true, "indexed": true},
	})
}

func (s *IndexSuite) TestCreateSQLErrors(c *C) {
	var tests = []struct {
		summary string
		index   paradedb.Bm25Index
		err     string
	}{{
		summary: "missing name",
		index:   paradedb.Bm25Index{Table: "articles", Fields: []any{"title"}},
		err:     "index name is required",
	}, {
		summary: "missing table",
		index:   paradedb.Bm25Index{Name: "ix", Fields: []any{"title"}},
		err:     "index table is required",
	}, {
		summary: "no fields",
		index:   paradedb.Bm25Index{Name: "ix", Table: "articles"},
		err:     `index "ix" needs at least one field`,
	}}
	for _, t := range tests {
		_, err := paradedb.NewBm25Index(t.index)
		c.Check(err, ErrorMatches, t.err, Commentf("test %q failed", t.summary))
	}

	ix, err := paradedb.NewBm25Index(paradedb.Bm25Index{
		Name: "ix", Table: "articles", Fields: []any{42},
	})
	c.Assert(err, IsNil)
	_, err = ix.CreateSQL(nil)
	c.Assert(err, ErrorMatches, "invalid index field type int")

	bad := paradedb.NewTextFieldConfig("title")
	bad.Record = "verbose"
	ix, err = paradedb.NewBm25Index(paradedb.Bm25Index{
		Name: "ix", Table: "articles", Fields: []any{"title"},
		Configs: paradedb.FieldConfigs{Text: []*paradedb.TextFieldConfig{bad}},
	})
	c.Assert(err, IsNil)
	_, err = ix.CreateSQL(nil)
	c.Assert(err, ErrorMatches, `invalid record mode "verbose" for field "title"`)
}

// withDocument extracts and unmarshals the quoted JSON document of one WITH
// option from a CREATE INDEX statement.
func withDocument(c *C, sql, option string) map[string]any {
	_, rest, ok := strings.Cut(sql, option+"='")
	c.Assert(ok, Equals, true, Commentf("option %q not present in %q", option, sql))
	doc, _, ok := strings.Cut(rest, "'")
	c.Assert(ok, Equals, true)
	var m map[string]any
	err := json.Unmarshal([]byte(doc), &m)
	c.Assert(err, IsNil)
	return m
}
