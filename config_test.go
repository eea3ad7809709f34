// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb_test

import (
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"

	paradedb "github.com/rahulsingh3292/paradedb-go"
)

type ConfigSuite struct{}

var _ = Suite(&ConfigSuite{})

func (s *ConfigSuite) TestDefaultConfig(c *C) {
	cfg := paradedb.DefaultConfig()
	c.Assert(cfg, DeepEquals, paradedb.Config{
		LegacyFunctions: []string{"term", "match"},
	})
}

func (s *ConfigSuite) TestLoadConfig(c *C) {
	path := filepath.Join(c.MkDir(), "paradedb.yaml")
	err := os.WriteFile(path, []byte(`
skip_operand_prep: [term, phrase]
force_current_schema: true
strict_resolve: true
legacy_functions: [boost]
`), 0o644)
	c.Assert(err, IsNil)

	cfg, err := paradedb.LoadConfig(path)
	c.Assert(err, IsNil)
	c.Assert(cfg, DeepEquals, paradedb.Config{
		SkipOperandPrep:    []string{"term", "phrase"},
		ForceCurrentSchema: true,
		StrictResolve:      true,
		LegacyFunctions:    []string{"boost"},
	})
}

func (s *ConfigSuite) TestLoadConfigPartial(c *C) {
	// Options absent from the file keep their defaults.
	path := filepath.Join(c.MkDir(), "paradedb.yaml")
	err := os.WriteFile(path, []byte("force_current_schema: true\n"), 0o644)
	c.Assert(err, IsNil)

	cfg, err := paradedb.LoadConfig(path)
	c.Assert(err, IsNil)
	c.Assert(cfg, DeepEquals, paradedb.Config{
		ForceCurrentSchema: true,
		LegacyFunctions:    []string{"term", "match"},
	})
}

func (s *ConfigSuite) TestLoadConfigErrors(c *C) {
	_, err := paradedb.LoadConfig(filepath.Join(c.MkDir(), "absent.yaml"))
	c.Assert(err, ErrorMatches, "cannot load config: .*")

	path := filepath.Join(c.MkDir(), "paradedb.yaml")
	err = os.WriteFile(path, []byte("{force_current_schema: true"), 0o644)
	c.Assert(err, IsNil)
	_, err = paradedb.LoadConfig(path)
	c.Assert(err, ErrorMatches, `cannot parse config ".*": .*`)
}

func (s *ConfigSuite) TestEscapeQuery(c *C) {
	var tests = []struct {
		summary string
		in      string
		out     string
	}{{
		summary: "plain text untouched",
		in:      "django",
		out:     "django",
	}, {
		summary: "query syntax characters",
		in:      "wow!",
		out:     `wow\!`,
	}, {
		summary: "whitespace and grouping",
		in:      "a b(c)",
		out:     `a\ b\(c\)`,
	}, {
		summary: "backslash itself",
		in:      `a\b`,
		out:     `a\\b`,
	}}
	for _, t := range tests {
		c.Check(paradedb.EscapeQuery(t.in), Equals, t.out,
			Commentf("test %q failed", t.summary))
	}
}
