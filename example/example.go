package example

import (
	"context"
	"fmt"

	"github.com/rahulsingh3292/paradedb-go"
)

func example() {
	registry, err := paradedb.NewRegistry(
		paradedb.Table{
			Name:       "articles",
			PrimaryKey: "id",
			Relations: map[string]paradedb.Relation{
				"author": {Table: "users"},
			},
		},
		paradedb.Table{
			Name:       "users",
			PrimaryKey: "id",
		},
	)
	if err != nil {
		panic(err)
	}

	q := paradedb.NewQuery(registry, "articles").WithAlias("u", "users")
	ctx := context.Background()

	// A free-text match compiled as an outermost filter. With the default
	// configuration the match function stays on the legacy schema, so the
	// field is repeated as the first argument and the identity key anchors
	// the left-hand side.
	match := paradedb.NewMatch("title", "python")
	sql, params := paradedb.MustCompile(ctx, match,
		paradedb.WithQuery(q), paradedb.WithMatchOp())
	fmt.Println(sql, params)

	// A boolean combinator: children always compile in field-qualified form.
	boolean, err := paradedb.NewBoolean(
		[]paradedb.Expr{paradedb.NewMatch("title", "python")},
		[]paradedb.Expr{paradedb.NewMatch("description", "snake")},
		nil,
	)
	if err != nil {
		panic(err)
	}
	sql, params = paradedb.MustCompile(ctx, boolean,
		paradedb.WithQuery(q), paradedb.WithMatchOp())
	fmt.Println(sql, params)

	// A cross-table reference through the author relation.
	search, err := paradedb.NewSearch(paradedb.F("author__email"), "@work.com", "")
	if err != nil {
		panic(err)
	}
	sql, params = paradedb.MustCompile(ctx, search, paradedb.WithQuery(q))
	fmt.Println(sql, params)

	// The lookup adapter front door, as a query-builder layer would call it.
	sql, params, err = paradedb.Translate(ctx, "term", "rating", 5,
		paradedb.WithQuery(q))
	if err != nil {
		panic(err)
	}
	fmt.Println(sql, params)

	// The index definition for the articles table.
	lower := true
	ix, err := paradedb.NewBm25Index(paradedb.Bm25Index{
		Name:   "articles_search_idx",
		Table:  "articles",
		Fields: []any{"id", "title", "description", "rating"},
		Configs: paradedb.FieldConfigs{
			Text: []*paradedb.TextFieldConfig{
				func() *paradedb.TextFieldConfig {
					c := paradedb.NewTextFieldConfig("title")
					c.Tokenizer = &paradedb.Tokenizer{
						Kind:      paradedb.TokenizerNGram,
						MinGram:   2,
						MaxGram:   4,
						Lowercase: &lower,
					}
					return c
				}(),
			},
			Numeric: []*paradedb.ScalarFieldConfig{
				paradedb.NewScalarFieldConfig("rating"),
			},
		},
	})
	if err != nil {
		panic(err)
	}
	create, err := ix.CreateSQL(q)
	if err != nil {
		panic(err)
	}
	fmt.Println(paradedb.CreateExtensionSQL())
	fmt.Println(create)
}
