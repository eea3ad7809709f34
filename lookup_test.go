// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb_test

import (
	"context"

	"github.com/shopspring/decimal"
	. "gopkg.in/check.v1"

	paradedb "github.com/rahulsingh3292/paradedb-go"
)

type LookupSuite struct{}

var _ = Suite(&LookupSuite{})

func (s *LookupSuite) TestTranslate(c *C) {
	q := articlesQuery(c)
	var tests = []struct {
		summary string
		op      string
		field   any
		value   any
		sql     string
		params  []any
	}{{
		summary: "term injects the model's identity key",
		op:      "term",
		field:   "rating",
		value:   5,
		sql:     "articles.id @@@ paradedb.term(rating, $1)",
		params:  []any{5},
	}, {
		summary: "all ignores the field",
		op:      "all",
		field:   nil,
		value:   nil,
		sql:     "articles.id @@@ pdb.all()",
	}, {
		summary: "search",
		op:      "pdb_search",
		field:   "title",
		value:   "python",
		sql:     "title @@@ $1",
		params:  []any{"python"},
	}, {
		summary: "match_v2 pins the alternate operator",
		op:      "match_v2",
		field:   "title",
		value:   "python",
		sql:     "title ||| $1",
		params:  []any{"python"},
	}, {
		summary: "term_v2 pins the exact operator",
		op:      "term_v2",
		field:   "title",
		value:   "python",
		sql:     "title === $1",
		params:  []any{"python"},
	}, {
		summary: "match with keyword arguments",
		op:      "match",
		field:   "title",
		value:   paradedb.P("python").Set("conjunction_mode", true).Set("distance", 1),
		sql:     "articles.id @@@ paradedb.match(title, $1, conjunction_mode:=$2, transposition_cost_one:=$3, prefix:=$4, distance:=$5)",
		params:  []any{"python", true, true, false, 1},
	}, {
		summary: "match_op false compiles the bare call",
		op:      "term",
		field:   "rating",
		value:   paradedb.P(5).Set("match_op", false),
		sql:     "paradedb.term(rating, $1)",
		params:  []any{5},
	}, {
		summary: "range takes keyword arguments",
		op:      "pdb_range",
		field:   "rating",
		value: map[string]any{
			"range_type": "int4range",
			"start":      1,
			"end":        5,
		},
		sql: "articles.id @@@ paradedb.range(rating, range:=int4range(1, 5, '[)'))",
	}, {
		summary: "proximity forwards the chain",
		op:      "proximity",
		field:   "title",
		value:   paradedb.P("a", "##", 1, "##>", "b"),
		sql:     "title @@@ ($1 ## $2 ##> $3)",
		params:  []any{"a", 1, "b"},
	}, {
		summary: "snippet",
		op:      "snippet",
		field:   "title",
		value:   map[string]any{"limit": 5, "start_tag": "<b>"},
		sql:     `articles.id @@@ pdb.snippet(title, "limit":=$1, start_tag:=$2)`,
		params:  []any{5, "<b>"},
	}}

	for _, t := range tests {
		sql, params, err := paradedb.Translate(context.Background(), t.op, t.field, t.value,
			paradedb.WithQuery(q))
		c.Assert(err, IsNil, Commentf("test %q failed", t.summary))
		c.Check(sql, Equals, t.sql, Commentf("test %q failed", t.summary))
		if t.params == nil {
			c.Check(params, HasLen, 0, Commentf("test %q failed", t.summary))
		} else {
			c.Check(params, DeepEquals, t.params, Commentf("test %q failed", t.summary))
		}
	}
}

func (s *LookupSuite) TestTranslateKeyDiscovery(c *C) {
	registry, err := paradedb.NewRegistry(
		paradedb.Table{
			Name:       "articles",
			PrimaryKey: "id",
			Relations: map[string]paradedb.Relation{
				"author": {Table: "users"},
			},
		},
		paradedb.Table{Name: "users", PrimaryKey: "user_id"},
	)
	c.Assert(err, IsNil)
	q := paradedb.NewQuery(registry, "articles").WithAlias("u", "users")

	// A field qualified with a joined table's alias anchors the lookup to
	// that table's identity key, rendered under the alias.
	sql, params, err := paradedb.Translate(context.Background(), "term",
		paradedb.TableField{Table: "u", Column: "email"}, "x@work.com",
		paradedb.WithQuery(q))
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "u.user_id @@@ paradedb.term(u.email, $1)")
	c.Assert(params, DeepEquals, []any{"x@work.com"})

	// A symbolic path through a relation anchors the same way.
	sql, _, err = paradedb.Translate(context.Background(), "term",
		paradedb.F("author__email"), "x@work.com", paradedb.WithQuery(q))
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "u.user_id @@@ paradedb.term(u.email, $1)")

	// The table's own name works as its alias.
	sql, _, err = paradedb.Translate(context.Background(), "term",
		paradedb.TableField{Table: "users", Column: "email"}, "x@work.com",
		paradedb.WithQuery(q))
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "users.user_id @@@ paradedb.term(users.email, $1)")

	// An unknown alias falls back to the query's own model.
	sql, _, err = paradedb.Translate(context.Background(), "term",
		paradedb.TableField{Table: "x", Column: "email"}, "x@work.com",
		paradedb.WithQuery(q))
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "articles.id @@@ paradedb.term(x.email, $1)")

	// Unless resolution is strict, in which case the miss is an error.
	_, _, err = paradedb.Translate(context.Background(), "term",
		paradedb.TableField{Table: "x", Column: "email"}, "x@work.com",
		paradedb.WithQuery(q),
		paradedb.WithConfig(paradedb.Config{
			StrictResolve:   true,
			LegacyFunctions: []string{"term"},
		}))
	c.Assert(err, ErrorMatches, `cannot resolve table "x": model not found`)

	// A field carrying its own key override wins over the alias map.
	sql, _, err = paradedb.Translate(context.Background(), "term",
		paradedb.TableField{
			Table: "u", Column: "email",
			Key: &paradedb.KeyField{Table: "u", Column: "uuid"},
		}, "x@work.com", paradedb.WithQuery(q))
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "u.uuid @@@ paradedb.term(u.email, $1)")

	// An explicit key_field wins over discovery; dotted strings are parsed
	// with quoting stripped.
	sql, _, err = paradedb.Translate(context.Background(), "term", "title",
		paradedb.P("go").Set("key_field", `"articles"."id"`),
		paradedb.WithQuery(q))
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "articles.id @@@ paradedb.term(title, $1)")
}

func (s *LookupSuite) TestTranslateCombinators(c *C) {
	q := articlesQuery(c)
	sql, params, err := paradedb.Translate(context.Background(), "boolean", nil,
		paradedb.P().
			Set("must", []paradedb.Expr{paradedb.Term{Field: "tag", Value: "go"}}).
			Set("should", []paradedb.Expr{paradedb.Term{Field: "tag", Value: "sql"}}),
		paradedb.WithQuery(q))
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "articles.id @@@ paradedb.boolean("+
		"must := ARRAY[paradedb.term(tag, $1)], should := ARRAY[paradedb.term(tag, $2)])")
	c.Assert(params, DeepEquals, []any{"go", "sql"})

	sql, params, err = paradedb.Translate(context.Background(), "boost", nil,
		paradedb.P(2.0, paradedb.Term{Field: "title", Value: "go"}),
		paradedb.WithQuery(q))
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "articles.id @@@ paradedb.boost($1, paradedb.term(title, $2))")
	c.Assert(params, DeepEquals, []any{2.0, "go"})
}

func (s *LookupSuite) TestTranslateErrors(c *C) {
	_, _, err := paradedb.Translate(context.Background(), "levenshtein", "title", "x")
	c.Assert(err, ErrorMatches, `unknown lookup operator "levenshtein"`)

	_, _, err = paradedb.Translate(context.Background(), "match", "title", nil)
	c.Assert(err, ErrorMatches, "match needs a value")

	_, _, err = paradedb.Translate(context.Background(), "boolean", nil, nil)
	c.Assert(err, ErrorMatches, "boolean needs at least one of must, must_not or should")
}

func (s *LookupSuite) TestValuePreparation(c *C) {
	price := decimal.RequireFromString("1.50")

	// The default preparation reduces decimals to their canonical text form.
	_, params, err := paradedb.Translate(context.Background(), "term", "price", price)
	c.Assert(err, IsNil)
	c.Assert(params, DeepEquals, []any{"1.5"})

	// Operators in the skip list receive the value untouched.
	cfg := paradedb.DefaultConfig()
	cfg.SkipOperandPrep = []string{"term"}
	_, params, err = paradedb.Translate(context.Background(), "term", "price", price,
		paradedb.WithConfig(cfg))
	c.Assert(err, IsNil)
	c.Assert(params, DeepEquals, []any{price})
}
