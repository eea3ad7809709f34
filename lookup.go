// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rahulsingh3292/paradedb-go/internal/field"
)

// Params is the uniform parameter bag the lookup layer hands to an
// expression factory: positional arguments plus keyword arguments. Use [P]
// and [Params.Set] to build one inline.
type Params struct {
	Args []any
	KV   map[string]any
}

// P returns a parameter bag holding the given positional arguments.
func P(args ...any) *Params {
	return &Params{Args: args}
}

// Set records a keyword argument and returns the bag for chaining.
func (p *Params) Set(key string, value any) *Params {
	if p.KV == nil {
		p.KV = make(map[string]any)
	}
	p.KV[key] = value
	return p
}

// paramsFrom normalizes a right-hand value into a parameter bag: an explicit
// bag passes through, a map becomes keyword arguments, an untyped slice
// becomes positional arguments, anything else is a single positional
// argument.
func paramsFrom(v any) *Params {
	switch x := v.(type) {
	case nil:
		return &Params{}
	case *Params:
		return x
	case Params:
		return &x
	case map[string]any:
		return &Params{KV: x}
	case []any:
		return &Params{Args: x}
	default:
		return &Params{Args: []any{v}}
	}
}

// arg returns the i'th positional argument, if present.
func (p *Params) arg(i int) (any, bool) {
	if i < len(p.Args) {
		return p.Args[i], true
	}
	return nil, false
}

func (p *Params) kv(key string) (any, bool) {
	v, ok := p.KV[key]
	return v, ok
}

func (p *Params) str(key, def string) string {
	if v, ok := p.KV[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func (p *Params) boolean(key string, def bool) bool {
	if v, ok := p.KV[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

func (p *Params) integer(key string, def int) int {
	if v, ok := p.KV[key]; ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return def
}

func (p *Params) float(key string, def float64) float64 {
	if v, ok := p.KV[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return def
}

func (p *Params) exprs(key string) []Expr {
	if v, ok := p.KV[key]; ok {
		if qs, ok := v.([]Expr); ok {
			return qs
		}
	}
	return nil
}

// lookupFactory builds the expression node for one registered operator. The
// field argument is omitted for operators registered without field
// forwarding, and key carries the identity key the adapter injected.
type lookupFactory func(f any, key any, p *Params) (Expr, error)

// lookups is the static operator registry, built once and read-only
// afterwards.
var lookups = map[string]lookupFactory{
	"all": func(f, key any, p *Params) (Expr, error) {
		return All{Key: key}, nil
	},
	"empty": func(f, key any, p *Params) (Expr, error) {
		return Empty{Key: key}, nil
	},
	"pdb_search":           searchFactory("@@@"),
	"match_v2":             searchFactory("|||"),
	"match_v2_conjunction": searchFactory("&&&"),
	"phrase_v2":            searchFactory("###"),
	"term_v2":              searchFactory("==="),
	"match": func(f, key any, p *Params) (Expr, error) {
		value, ok := p.arg(0)
		if !ok {
			return nil, fmt.Errorf("match needs a value")
		}
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("match needs a string value, got %T", value)
		}
		m := NewMatch(f, s)
		m.Distance = p.integer("distance", 0)
		m.ConjunctionMode = p.boolean("conjunction_mode", false)
		m.Tokenizer = TokenizerKind(p.str("tokenizer", ""))
		m.TranspositionCostOne = p.boolean("transposition_cost_one", true)
		m.Prefix = p.boolean("prefix", false)
		m.Escaped = p.boolean("escaped", false)
		m.Key = key
		return m, nil
	},
	"pdb_exists": func(f, key any, p *Params) (Expr, error) {
		return Exists{Field: f, Key: key}, nil
	},
	"pdb_range": func(f, key any, p *Params) (Expr, error) {
		start, _ := p.kv("start")
		end, _ := p.kv("end")
		r, err := NewRange(f, RangeType(p.str("range_type", "")), start, end,
			RangeBound(p.str("bounds", "")))
		if err != nil {
			return nil, err
		}
		r.Key = key
		return r, nil
	},
	"range_term": func(f, key any, p *Params) (Expr, error) {
		term, ok := p.arg(0)
		if !ok {
			return nil, fmt.Errorf("range_term needs a term")
		}
		rt, err := NewRangeTerm(f, term, RangeCast(p.str("cast", "")),
			RangeRelation(p.str("relation", "")))
		if err != nil {
			return nil, err
		}
		rt.Key = key
		return rt, nil
	},
	"pdb_regex": func(f, key any, p *Params) (Expr, error) {
		value, ok := p.arg(0)
		if !ok {
			return nil, fmt.Errorf("regex needs a pattern")
		}
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("regex needs a string pattern, got %T", value)
		}
		return Regex{Field: f, Value: s, Key: key}, nil
	},
	"term": func(f, key any, p *Params) (Expr, error) {
		value, ok := p.arg(0)
		if !ok {
			return nil, fmt.Errorf("term needs a value")
		}
		return Term{Field: f, Value: value,
			EnumCastField: p.str("enum_cast_field", ""), Key: key}, nil
	},
	"term_set": func(f, key any, p *Params) (Expr, error) {
		terms := make([]Term, 0, len(p.Args))
		for _, a := range p.Args {
			t, ok := a.(Term)
			if !ok {
				return nil, fmt.Errorf("term_set needs term arguments, got %T", a)
			}
			terms = append(terms, t)
		}
		return TermSet{Terms: terms, Key: key}, nil
	},
	"fuzzy_term": func(f, key any, p *Params) (Expr, error) {
		value, ok := p.arg(0)
		if !ok {
			return nil, fmt.Errorf("fuzzy_term needs a value")
		}
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("fuzzy_term needs a string value, got %T", value)
		}
		ft := NewFuzzyTerm(f, s)
		ft.Distance = p.integer("distance", 2)
		ft.TranspositionCostOne = p.boolean("transposition_cost_one", true)
		ft.Prefix = p.boolean("prefix", false)
		ft.Key = key
		return ft, nil
	},
	"phrase": func(f, key any, p *Params) (Expr, error) {
		phrases, err := phraseArg(p, "phrase")
		if err != nil {
			return nil, err
		}
		ph, err := NewPhrase(f, phrases, p.integer("slop", 0))
		if err != nil {
			return nil, err
		}
		ph.Key = key
		return ph, nil
	},
	"phrase_prefix": func(f, key any, p *Params) (Expr, error) {
		phrases, err := phraseArg(p, "phrase_prefix")
		if err != nil {
			return nil, err
		}
		pp, err := NewPhrasePrefix(f, phrases, p.integer("max_expansion", 0))
		if err != nil {
			return nil, err
		}
		pp.Key = key
		return pp, nil
	},
	"const_score": func(f, key any, p *Params) (Expr, error) {
		query, err := exprArg(p, 1, "const_score")
		if err != nil {
			return nil, err
		}
		score, err := floatArg(p, 0, "const_score")
		if err != nil {
			return nil, err
		}
		return ConstScore{Score: score, Query: query, Key: key}, nil
	},
	"boost": func(f, key any, p *Params) (Expr, error) {
		query, err := exprArg(p, 1, "boost")
		if err != nil {
			return nil, err
		}
		factor, err := floatArg(p, 0, "boost")
		if err != nil {
			return nil, err
		}
		return Boost{Factor: factor, Query: query, Key: key}, nil
	},
	"bm25_score": func(f, key any, p *Params) (Expr, error) {
		return Bm25Score{Key: key}, nil
	},
	"disjunction_max": func(f, key any, p *Params) (Expr, error) {
		var disjuncts []Expr
		for _, a := range p.Args {
			q, ok := a.(Expr)
			if !ok {
				return nil, fmt.Errorf("disjunction_max needs expression arguments, got %T", a)
			}
			disjuncts = append(disjuncts, q)
		}
		return DisjunctionMax{Disjuncts: disjuncts,
			TieBreaker: p.integer("tie_breaker", 0), Key: key}, nil
	},
	"boolean": func(f, key any, p *Params) (Expr, error) {
		b, err := NewBoolean(p.exprs("must"), p.exprs("must_not"), p.exprs("should"))
		if err != nil {
			return nil, err
		}
		b.Key = key
		return b, nil
	},
	"more_like_this": func(f, key any, p *Params) (Expr, error) {
		mlt := MoreLikeThis{Key: key}
		if id, ok := p.arg(0); ok {
			mlt.DocumentID = id
		}
		if id, ok := p.kv("document_id"); ok {
			mlt.DocumentID = id
		}
		if doc, ok := p.kv("document"); ok {
			if m, ok := doc.(map[string]any); ok {
				mlt.Document = m
			}
		}
		if fields, ok := p.kv("fields"); ok {
			if fs, ok := fields.([]string); ok {
				mlt.Fields = fs
			}
		}
		mlt.MinDocFrequency = p.integer("min_doc_frequency", 0)
		mlt.MaxDocFrequency = p.integer("max_doc_frequency", 0)
		mlt.MinTermFrequency = p.integer("min_term_frequency", 0)
		mlt.MaxQueryTerms = p.integer("max_query_terms", 0)
		mlt.MinWordLength = p.integer("min_word_length", 0)
		mlt.MaxWordLength = p.integer("max_word_length", 0)
		mlt.BoostFactor = p.float("boost_factor", 0)
		if sw, ok := p.kv("stopwords"); ok {
			if ss, ok := sw.([]string); ok {
				mlt.StopWords = ss
			}
		}
		return NewMoreLikeThis(mlt)
	},
	"parse": func(f, key any, p *Params) (Expr, error) {
		query, ok := p.arg(0)
		if !ok {
			return nil, fmt.Errorf("parse needs a query string")
		}
		s, ok := query.(string)
		if !ok {
			return nil, fmt.Errorf("parse needs a string query, got %T", query)
		}
		return Parse{Query: s, Lenient: p.boolean("lenient", false),
			ConjunctionMode: p.boolean("conjunction_mode", false), Key: key}, nil
	},
	"parse_with_field": func(f, key any, p *Params) (Expr, error) {
		query, ok := p.arg(0)
		if !ok {
			return nil, fmt.Errorf("parse_with_field needs a query string")
		}
		s, ok := query.(string)
		if !ok {
			return nil, fmt.Errorf("parse_with_field needs a string query, got %T", query)
		}
		return ParseWithField{Field: f, Value: s,
			Lenient:         p.boolean("lenient", false),
			ConjunctionMode: p.boolean("conjunction_mode", false), Key: key}, nil
	},
	"snippet": func(f, key any, p *Params) (Expr, error) {
		s := Snippet{Field: f, Key: key}
		if v, ok := p.kv("limit"); ok {
			if n, ok := v.(int); ok {
				s.Limit = &n
			}
		}
		if v, ok := p.kv("offset"); ok {
			if n, ok := v.(int); ok {
				s.Offset = &n
			}
		}
		s.StartTag = p.str("start_tag", "")
		s.EndTag = p.str("end_tag", "")
		if v, ok := p.kv("max_num_chars"); ok {
			if n, ok := v.(int); ok {
				s.MaxNumChars = &n
			}
		}
		return s, nil
	},
	"proximity": func(f, key any, p *Params) (Expr, error) {
		prox, err := NewProximity(f, p.Args...)
		if err != nil {
			return nil, err
		}
		prox.Key = key
		return prox, nil
	},
}

// searchFactory returns the factory for the free-form search operators; each
// registered name pins one operator token.
func searchFactory(op string) lookupFactory {
	return func(f, key any, p *Params) (Expr, error) {
		value, ok := p.arg(0)
		if !ok {
			return nil, fmt.Errorf("search needs a value")
		}
		s, err := NewSearch(f, value, op)
		if err != nil {
			return nil, err
		}
		s.Escaped = p.boolean("escaped", false)
		s.Key = key
		return s, nil
	}
}

func phraseArg(p *Params, op string) ([]string, error) {
	value, ok := p.arg(0)
	if !ok {
		return nil, fmt.Errorf("%s needs a phrase list", op)
	}
	phrases, ok := value.([]string)
	if !ok {
		return nil, fmt.Errorf("%s needs a string list, got %T", op, value)
	}
	return phrases, nil
}

func exprArg(p *Params, i int, op string) (Expr, error) {
	value, ok := p.arg(i)
	if !ok {
		if q, ok := p.kv("query"); ok {
			value = q
		} else {
			return nil, fmt.Errorf("%s needs a child expression", op)
		}
	}
	q, ok := value.(Expr)
	if !ok {
		return nil, fmt.Errorf("%s needs a child expression, got %T", op, value)
	}
	return q, nil
}

func floatArg(p *Params, i int, op string) (float64, error) {
	value, ok := p.arg(i)
	if !ok {
		return 0, fmt.Errorf("%s needs a numeric argument", op)
	}
	switch n := value.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%s needs a numeric argument, got %T", op, value)
	}
}

// Translate looks up the operator, builds its expression node from the
// right-hand value, injects the identity key of the table owning the
// left-hand field, and compiles with the match-operator prefix applied
// unless the parameter bag turned it off.
func Translate(ctx context.Context, op string, f any, value any, opts ...CompileOption) (string, []any, error) {
	factory, ok := lookups[op]
	if !ok {
		return "", nil, fmt.Errorf("unknown lookup operator %q", op)
	}
	cc := newCompileCtx(ctx, opts...)
	p := paramsFrom(value)
	if !cc.cfg.skipsPrep(op) {
		for i, a := range p.Args {
			p.Args[i] = prepValue(a)
		}
	}
	key, _ := p.kv("key_field")
	if s, ok := key.(string); ok && strings.Contains(s, ".") {
		kf, err := field.ParseKeyField(s)
		if err != nil {
			return "", nil, err
		}
		key = kf
	}
	if key == nil && cc.query != nil {
		kf, err := cc.keyForLookup(f)
		if err != nil {
			return "", nil, err
		}
		key = kf
	}
	node, err := factory(f, key, p)
	if err != nil {
		return "", nil, err
	}
	cc.matchOp = p.boolean("match_op", true)
	sql, err := node.compile(cc)
	if err != nil {
		return "", nil, err
	}
	return sql, cc.args.params, nil
}

// keyForLookup determines the identity key anchoring a lookup: the key of
// the table owning the left-hand field, with explicitly qualified fields
// reverse-mapped through the query's alias map. Bare column names, and
// alias misses on a lenient query, anchor to the query's own model.
func (cc *compileCtx) keyForLookup(f any) (KeyField, error) {
	if f == nil {
		return cc.keyForModel()
	}
	ref, err := field.AsRef(f)
	if err != nil {
		return KeyField{}, err
	}
	switch r := ref.(type) {
	case field.TableField:
		if r.Key != nil {
			return *r.Key, nil
		}
		return cc.query.KeyForAlias(r.Table)
	case field.Path:
		_, key, err := field.Resolve(r, cc.query)
		if err != nil {
			return KeyField{}, err
		}
		if key != nil {
			return *key, nil
		}
	}
	return cc.keyForModel()
}

// keyForModel returns the identity key of the compiling query's own model.
func (cc *compileCtx) keyForModel() (KeyField, error) {
	q := cc.query
	return field.KeyForTable(q.Registry(), q.Model(), "")
}

// prepValue is the default value-preparation step applied to positional
// lookup arguments: decimal and other Stringer values are reduced to their
// canonical text form so the driver binds them portably. Operators listed in
// the skip-prep configuration receive their arguments untouched.
func prepValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return v
	}
}
