// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb_test

import (
	"context"

	. "gopkg.in/check.v1"

	paradedb "github.com/rahulsingh3292/paradedb-go"
)

type ProximitySuite struct{}

var _ = Suite(&ProximitySuite{})

func (s *ProximitySuite) TestChain(c *C) {
	p, err := paradedb.NewProximity("title", "django", "##", 2, "##>", "framework")
	c.Assert(err, IsNil)
	sql, params, err := paradedb.Compile(context.Background(), p)
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "title @@@ ($1 ## $2 ##> $3)")
	c.Assert(params, DeepEquals, []any{"django", 2, "framework"})
}

func (s *ProximitySuite) TestChainWithSubClauses(c *C) {
	regex, err := paradedb.NewProximityRegex("m.*", 0)
	c.Assert(err, IsNil)
	limited, err := paradedb.NewProximityRegex("wow.*", 10)
	c.Assert(err, IsNil)

	p, err := paradedb.NewProximity("title",
		"django", "##", "1", "##>",
		regex, "##", 100, "##>",
		paradedb.ProximityArray{Values: []any{"wow", limited}},
	)
	c.Assert(err, IsNil)

	sql, params, err := paradedb.Compile(context.Background(), p)
	c.Assert(err, IsNil)
	c.Assert(sql, Equals,
		"title @@@ ($1 ## $2 ##> pdb.prox_regex($3) ## $4 ##> pdb.prox_array($5, pdb.prox_regex($6, $7)))")
	c.Assert(params, DeepEquals, []any{"django", 1, "m.*", 100, "wow", "wow.*", 10})
}

func (s *ProximitySuite) TestStandaloneClausesAreWrapped(c *C) {
	regex, err := paradedb.NewProximityRegex("go.*", 5)
	c.Assert(err, IsNil)
	sql, params, err := paradedb.Compile(context.Background(), regex)
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "(pdb.prox_regex($1, $2))")
	c.Assert(params, DeepEquals, []any{"go.*", 5})

	array := paradedb.ProximityArray{Values: []any{"a", "b"}}
	sql, params, err = paradedb.Compile(context.Background(), array)
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "(pdb.prox_array($1, $2))")
	c.Assert(params, DeepEquals, []any{"a", "b"})
}

func (s *ProximitySuite) TestStructuralValidation(c *C) {
	_, err := paradedb.NewProximity("title", "a", "##")
	c.Assert(err, ErrorMatches, "proximity chain must have odd length of at least 3, got 2")

	_, err = paradedb.NewProximityRegex("m.*", -1)
	c.Assert(err, ErrorMatches, "max expansions must not be negative, got -1")

	p, err := paradedb.NewProximity("title", "a", "<>", 1)
	c.Assert(err, IsNil)
	_, _, err = paradedb.Compile(context.Background(), p)
	c.Assert(err, ErrorMatches, `expected "##" or "##>" at position 2, got <>`)

	p, err = paradedb.NewProximity("title", "a", "##", "two")
	c.Assert(err, IsNil)
	_, _, err = paradedb.Compile(context.Background(), p)
	c.Assert(err, ErrorMatches, `expected non-negative distance at position 3, got "two"`)

	p, err = paradedb.NewProximity("title", "a", "##", 1.5)
	c.Assert(err, IsNil)
	_, _, err = paradedb.Compile(context.Background(), p)
	c.Assert(err, ErrorMatches, "expected distance at position 3, got float64")
}

func (s *ProximitySuite) TestSharedClauseCompilesIdentically(c *C) {
	regex, err := paradedb.NewProximityRegex("go.*", 0)
	c.Assert(err, IsNil)

	chain, err := paradedb.NewProximity("title", "lang", "##", 3, "##>", regex)
	c.Assert(err, IsNil)

	first, firstParams, err := paradedb.Compile(context.Background(), chain)
	c.Assert(err, IsNil)

	// Compiling the clause standalone in between must not change the chain.
	_, _, err = paradedb.Compile(context.Background(), regex)
	c.Assert(err, IsNil)

	second, secondParams, err := paradedb.Compile(context.Background(), chain)
	c.Assert(err, IsNil)
	c.Assert(second, Equals, first)
	c.Assert(secondParams, DeepEquals, firstParams)
}
