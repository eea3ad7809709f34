// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb

import (
	"fmt"
	"strconv"
	"strings"
)

// proximity operator tokens. "##" matches clauses within a distance in
// either order; "##>" requires them in the written order.
var proximityOps = map[string]bool{
	"##": true, "##>": true,
}

// ProximityRegex is a regular-expression clause of a proximity chain. Use
// [NewProximityRegex]; standalone clauses are parenthesised, while clauses
// embedded in a chain or array are emitted bare.
type ProximityRegex struct {
	Regex         string
	MaxExpansions int
}

// NewProximityRegex builds a proximity regex clause.
func NewProximityRegex(regex string, maxExpansions int) (*ProximityRegex, error) {
	if maxExpansions < 0 {
		return nil, fmt.Errorf("max expansions must not be negative, got %d", maxExpansions)
	}
	return &ProximityRegex{Regex: regex, MaxExpansions: maxExpansions}, nil
}

func (pr *ProximityRegex) compile(cc *compileCtx) (string, error) {
	return pr.compileProx(cc, true)
}

// compileProx lowers the clause, parenthesised or bare, without mutating the
// node, so a clause shared between chains compiles identically every time.
func (pr *ProximityRegex) compileProx(cc *compileCtx, wrap bool) (string, error) {
	if pr.MaxExpansions < 0 {
		return "", fmt.Errorf("max expansions must not be negative, got %d", pr.MaxExpansions)
	}
	args := cc.param(pr.Regex)
	if pr.MaxExpansions != 0 {
		args += ", " + cc.param(pr.MaxExpansions)
	}
	sql := "pdb.prox_regex(" + args + ")"
	if wrap {
		sql = "(" + sql + ")"
	}
	return sql, nil
}

// ProximityArray groups alternative terms at one position of a proximity
// chain. Elements may be strings, ints, or [ProximityRegex] clauses.
type ProximityArray struct {
	Values []any
}

func (pa ProximityArray) compile(cc *compileCtx) (string, error) {
	return pa.compileProx(cc, true)
}

func (pa ProximityArray) compileProx(cc *compileCtx, wrap bool) (string, error) {
	args := make([]string, len(pa.Values))
	for i, v := range pa.Values {
		switch e := v.(type) {
		case ProximityRegex:
			sql, err := e.compileProx(cc, false)
			if err != nil {
				return "", err
			}
			args[i] = sql
		case *ProximityRegex:
			sql, err := e.compileProx(cc, false)
			if err != nil {
				return "", err
			}
			args[i] = sql
		case string, int:
			args[i] = cc.param(e)
		default:
			return "", fmt.Errorf("invalid proximity array element type %T", v)
		}
	}
	sql := "pdb.prox_array(" + strings.Join(args, ", ") + ")"
	if wrap {
		sql = "(" + sql + ")"
	}
	return sql, nil
}

// Proximity matches chained clauses of a field within given token distances
// of each other. The chain interleaves operands and operators: operand
// positions alternate between clause and distance, and every other position
// carries one of the "##" and "##>" operator tokens, so a chain reads
// [clause, op, distance, op, clause, ...]. Use [NewProximity]; the chain
// length is checked at construction and the element types at compile time.
type Proximity struct {
	Chain []any
	// Field, when set, is placed on the left-hand side of the match
	// operator.
	Field any
	Key   any
}

// NewProximity builds a Proximity predicate over an interleaved chain.
func NewProximity(f any, chain ...any) (*Proximity, error) {
	if len(chain) < 3 || len(chain)%2 == 0 {
		return nil, fmt.Errorf("proximity chain must have odd length of at least 3, got %d", len(chain))
	}
	return &Proximity{Chain: chain, Field: f}, nil
}

func (p *Proximity) compile(cc *compileCtx) (string, error) {
	if len(p.Chain) < 3 || len(p.Chain)%2 == 0 {
		return "", fmt.Errorf("proximity chain must have odd length of at least 3, got %d", len(p.Chain))
	}
	parts := make([]string, len(p.Chain))
	expect := "clause"
	for i, elem := range p.Chain {
		if i%2 == 1 {
			op, ok := elem.(string)
			if !ok || !proximityOps[op] {
				return "", fmt.Errorf(`expected "##" or "##>" at position %d, got %v`, i+1, elem)
			}
			parts[i] = op
			continue
		}
		if expect == "clause" {
			sql, err := proxClause(cc, elem, i)
			if err != nil {
				return "", err
			}
			parts[i] = sql
			expect = "distance"
		} else {
			sql, err := proxDistance(cc, elem, i)
			if err != nil {
				return "", err
			}
			parts[i] = sql
			expect = "clause"
		}
	}
	sql := "(" + strings.Join(parts, " ") + ")"
	if p.Field != nil {
		display, _, err := cc.resolveField(p.Field)
		if err != nil {
			return "", err
		}
		return display + " " + MatchOperator + " " + sql, nil
	}
	return cc.prefixKey(p.Key, nil, sql)
}

// proxClause lowers a clause position of a proximity chain. Regex and array
// sub-clauses are emitted bare so the chain stays one expression.
func proxClause(cc *compileCtx, clause any, pos int) (string, error) {
	switch c := clause.(type) {
	case ProximityRegex:
		return c.compileProx(cc, false)
	case *ProximityRegex:
		return c.compileProx(cc, false)
	case ProximityArray:
		return c.compileProx(cc, false)
	case *ProximityArray:
		return c.compileProx(cc, false)
	case string, int:
		return cc.param(c), nil
	default:
		return "", fmt.Errorf("invalid proximity clause type %T at position %d", clause, pos+1)
	}
}

// proxDistance lowers a distance position of a proximity chain. Distances
// are non-negative integers, given either as int or as a digit string.
func proxDistance(cc *compileCtx, d any, pos int) (string, error) {
	switch v := d.(type) {
	case int:
		if v < 0 {
			return "", fmt.Errorf("expected non-negative distance at position %d, got %d", pos+1, v)
		}
		return cc.param(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return "", fmt.Errorf("expected non-negative distance at position %d, got %q", pos+1, v)
		}
		return cc.param(n), nil
	default:
		return "", fmt.Errorf("expected distance at position %d, got %T", pos+1, d)
	}
}
