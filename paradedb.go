// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb

import (
	"context"
	"strconv"
	"strings"

	"github.com/rahulsingh3292/paradedb-go/internal/dialect"
	"github.com/rahulsingh3292/paradedb-go/internal/field"
)

// MatchOperator is the fixed binary operator token connecting an identity-key
// column to a predicate function call.
const MatchOperator = "@@@"

// Aliases for the resolver types so callers only import this package.
type (
	// Ref is a reference to a column used inside an expression.
	Ref = field.Ref
	// Name is a bare column name.
	Name = field.Name
	// TableField is a column qualified with an explicit table.
	TableField = field.TableField
	// KeyField pairs a table with its identity-key column.
	KeyField = field.KeyField
	// Table holds registered metadata about one table.
	Table = field.Table
	// Relation names a related table.
	Relation = field.Relation
	// Registry is the write-once table metadata registry.
	Registry = field.Registry
	// Query describes the compiling query: owning model plus alias map.
	Query = field.Query

	// Selector decides between the legacy and current schema prefixes.
	Selector = dialect.Selector
	// VersionProbe reports the installed pg_search version.
	VersionProbe = dialect.VersionProbe
	// PGProbe is a VersionProbe backed by a pgx connection pool.
	PGProbe = dialect.PGProbe
)

// ErrModelNotFound is returned on resolution misses in strict mode.
var ErrModelNotFound = field.ErrModelNotFound

// F references a column through the query's relations, written with double
// underscores, for example F("user__date_joined").
func F(path string) Ref {
	return field.Path(path)
}

// NewRegistry builds the table registry. It should be called once at process
// start-up; the registry is read-only afterwards.
func NewRegistry(tables ...Table) (*Registry, error) {
	return field.NewRegistry(tables...)
}

// NewQuery returns a query context rooted at the named table.
func NewQuery(registry *Registry, model string) *Query {
	return field.NewQuery(registry, model)
}

// Expr is an expression that can be compiled into a SQL fragment plus bound
// parameters. The set of implementations in this package is closed.
type Expr interface {
	compile(cc *compileCtx) (string, error)
}

// Compile lowers an expression into SQL text and its ordered bound
// parameters. Parameters of nested sub-expressions are threaded through
// positionally, so placeholders are numbered across the whole tree.
func Compile(ctx context.Context, expr Expr, opts ...CompileOption) (string, []any, error) {
	cc := newCompileCtx(ctx, opts...)
	sql, err := expr.compile(cc)
	if err != nil {
		return "", nil, err
	}
	return sql, cc.args.params, nil
}

// MustCompile is the same as [Compile] except that it panics on error.
func MustCompile(ctx context.Context, expr Expr, opts ...CompileOption) (string, []any) {
	sql, params, err := Compile(ctx, expr, opts...)
	if err != nil {
		panic(err)
	}
	return sql, params
}

// CompileOption configures a single compilation.
type CompileOption func(*compileCtx)

// WithQuery supplies the compiling query's alias map and owning model.
func WithQuery(q *Query) CompileOption {
	return func(cc *compileCtx) { cc.query = q }
}

// WithConfig supplies the configuration for this compilation.
func WithConfig(cfg Config) CompileOption {
	return func(cc *compileCtx) { cc.cfg = cfg }
}

// WithSelector supplies the dialect selector, including its memoized version
// probe. Without one the configuration alone decides the schema, defaulting
// to legacy.
func WithSelector(s *Selector) CompileOption {
	return func(cc *compileCtx) { cc.sel = s }
}

// WithMatchOp prefixes the compiled SQL with the expression's identity key
// and the match operator, making it usable as an outermost filter.
func WithMatchOp() CompileOption {
	return func(cc *compileCtx) { cc.matchOp = true }
}

// WithLegacy pins this compilation to the legacy schema prefix.
func WithLegacy() CompileOption {
	return func(cc *compileCtx) { cc.legacy = true }
}

// argList accumulates the bound parameters of one compilation. It is shared
// between a compile context and the child contexts of its combinators.
type argList struct {
	params []any
}

// add appends a parameter and returns its placeholder.
func (a *argList) add(v any) string {
	a.params = append(a.params, v)
	return "$" + strconv.Itoa(len(a.params))
}

// compileCtx carries the state of one compilation: the surrounding query,
// the dialect selector, the parameter accumulator, and the cross-cutting
// placement flags shared by every node type.
type compileCtx struct {
	ctx   context.Context
	query *Query
	sel   *Selector
	cfg   Config
	args  *argList

	// matchOp asks the node to prefix its SQL with "<identity-key> @@@ ".
	matchOp bool
	// legacy pins emitted calls to the legacy schema prefix.
	legacy bool
	// ignoreLHS suppresses left-hand-side field placement, used when the
	// node is an operand of a combinator.
	ignoreLHS bool
}

func newCompileCtx(ctx context.Context, opts ...CompileOption) *compileCtx {
	if ctx == nil {
		ctx = context.Background()
	}
	cc := &compileCtx{ctx: ctx, cfg: DefaultConfig(), args: &argList{}}
	for _, opt := range opts {
		opt(cc)
	}
	if cc.sel == nil {
		cc.sel = cc.cfg.NewSelector(nil)
	}
	if cc.cfg.StrictResolve && cc.query != nil {
		cc.query = cc.query.Strict()
	}
	return cc
}

// nested returns the context used to compile an operand of a combinator. The
// child shares the parameter accumulator and is forced into field-qualified
// legacy form with no left-hand side.
func (cc *compileCtx) nested() *compileCtx {
	child := *cc
	child.matchOp = false
	child.legacy = true
	child.ignoreLHS = true
	return &child
}

// param binds a value and returns its placeholder.
func (cc *compileCtx) param(v any) string {
	return cc.args.add(v)
}

// schema picks the schema prefix for the named function.
func (cc *compileCtx) schema(function string) (dialect.Schema, error) {
	return cc.sel.Schema(cc.ctx, function, cc.legacy)
}

// resolveField reduces a field argument to its display SQL and, when it can
// be inferred, the identity key of its table.
func (cc *compileCtx) resolveField(f any) (string, *KeyField, error) {
	ref, err := field.AsRef(f)
	if err != nil {
		return "", nil, err
	}
	return field.Resolve(ref, cc.query)
}

// keyFor renders the identity key named by a node's Key argument, falling
// back to the inferred key of the node's field, then to the bare column "id".
func (cc *compileCtx) keyFor(keyArg any, inferred *KeyField) (string, error) {
	switch k := keyArg.(type) {
	case nil:
		if inferred != nil {
			return inferred.String(), nil
		}
		return "id", nil
	case string:
		if k == "" && inferred != nil {
			return inferred.String(), nil
		}
		if k == "" {
			return "id", nil
		}
		return k, nil
	case KeyField:
		return k.String(), nil
	case *KeyField:
		return k.String(), nil
	default:
		display, _, err := cc.resolveField(keyArg)
		return display, err
	}
}

// buildCall assembles "<schema>.<fn>(args...)" with either left-hand-side
// field placement or an identity-key match prefix.
func buildCall(schema dialect.Schema, fn string, args []string, lhs, key string) string {
	call := string(schema) + "." + fn + "(" + strings.Join(args, ", ") + ")"
	if lhs != "" {
		return lhs + " " + MatchOperator + " " + call
	}
	if key != "" {
		return key + " " + MatchOperator + " " + call
	}
	return call
}
