// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rahulsingh3292/paradedb-go/internal/dialect"
)

// fieldCall lowers a schema-qualified function call over a field. The legacy
// signature repeats the field as the first inline argument; the current
// signature omits it and places the field on the left-hand side of the match
// operator instead. The identity-key prefix is applied when the context asks
// for it and no left-hand side was emitted.
func (cc *compileCtx) fieldCall(fn string, f any, keyArg any, args []string) (string, error) {
	display, inferred, err := cc.resolveField(f)
	if err != nil {
		return "", err
	}
	schema, err := cc.schema(fn)
	if err != nil {
		return "", err
	}
	if schema == dialect.Legacy {
		args = append([]string{display}, args...)
	}
	var lhs string
	if schema == dialect.Current && !cc.ignoreLHS {
		lhs = display
	}
	var key string
	if cc.matchOp && lhs == "" {
		if key, err = cc.keyFor(keyArg, inferred); err != nil {
			return "", err
		}
	}
	return buildCall(schema, fn, args, lhs, key), nil
}

// prefixKey applies the identity-key match prefix to sql when the context
// asks for it.
func (cc *compileCtx) prefixKey(keyArg any, inferred *KeyField, sql string) (string, error) {
	if !cc.matchOp {
		return sql, nil
	}
	key, err := cc.keyFor(keyArg, inferred)
	if err != nil {
		return "", err
	}
	return key + " " + MatchOperator + " " + sql, nil
}

// All matches every indexed document.
type All struct {
	// Key names the identity key used when the match prefix is requested.
	Key any
}

func (a All) compile(cc *compileCtx) (string, error) {
	sql := "pdb.all()"
	if cc.legacy {
		sql = "paradedb.all()"
	}
	return cc.prefixKey(a.Key, nil, sql)
}

// Empty matches no documents.
type Empty struct {
	Key any
}

func (e Empty) compile(cc *compileCtx) (string, error) {
	return cc.prefixKey(e.Key, nil, "pdb.empty()")
}

// searchOps are the operator tokens accepted by [Search]. Which one a Search
// carries is decided by the lookup that constructed it, not by user input.
var searchOps = map[string]bool{
	"@@@": true, "|||": true, "===": true, "###": true, "&&&": true,
}

// Search is the primary free-form search predicate: "<field> <op> <value>".
// The value may be a scalar, a sequence, or a sub-expression such as a
// [ValueCast] or another predicate.
type Search struct {
	Field any
	Value any
	// Op is one of "@@@", "|||", "===", "###" or "&&&"; empty means "@@@".
	Op string
	// Escaped escapes pg_search query syntax in string values.
	Escaped bool
	Key     any
}

// NewSearch builds a Search predicate, validating the operator token.
func NewSearch(f any, value any, op string) (*Search, error) {
	if op == "" {
		op = MatchOperator
	}
	if !searchOps[op] {
		return nil, fmt.Errorf("invalid search operator %q", op)
	}
	return &Search{Field: f, Value: value, Op: op}, nil
}

func (s *Search) compile(cc *compileCtx) (string, error) {
	op := s.Op
	if op == "" {
		op = MatchOperator
	}
	if !searchOps[op] {
		return "", fmt.Errorf("invalid search operator %q", op)
	}
	display, _, err := cc.resolveField(s.Field)
	if err != nil {
		return "", err
	}
	value := s.Value
	if str, ok := value.(string); ok && s.Escaped {
		value = EscapeQuery(str)
	}
	rhs, err := cc.operand(value)
	if err != nil {
		return "", err
	}
	return display + " " + op + " " + rhs, nil
}

// Match is a free-text match with edit-distance fuzziness, conjunction and
// prefix modes, and an optional tokenizer override. Use [NewMatch] to get the
// usual defaults.
type Match struct {
	Field any
	Value string
	// Distance is the maximum edit distance of matched terms.
	Distance        int
	ConjunctionMode bool
	// Tokenizer overrides the tokenizer by name; it must be one of the kinds
	// accepted for index configuration.
	Tokenizer            TokenizerKind
	TranspositionCostOne bool
	Prefix               bool
	Escaped              bool
	Key                  any
}

// NewMatch returns a Match with the default tuning: zero distance,
// transpositions counted as a single edit.
func NewMatch(f any, value string) *Match {
	return &Match{Field: f, Value: value, TranspositionCostOne: true}
}

func (m *Match) compile(cc *compileCtx) (string, error) {
	if m.Tokenizer != "" && !matchTokenizers[m.Tokenizer] {
		return "", fmt.Errorf("invalid tokenizer %q for match", m.Tokenizer)
	}
	value := m.Value
	if m.Escaped {
		value = EscapeQuery(value)
	}
	args := []string{
		cc.param(value),
		"conjunction_mode:=" + cc.param(m.ConjunctionMode),
		"transposition_cost_one:=" + cc.param(m.TranspositionCostOne),
		"prefix:=" + cc.param(m.Prefix),
		"distance:=" + cc.param(m.Distance),
	}
	if m.Tokenizer != "" {
		args = append(args, "tokenizer:=paradedb.tokenizer("+cc.param(string(m.Tokenizer))+")")
	}
	return cc.fieldCall("match", m.Field, m.Key, args)
}

// Exists matches documents that have any value for the field.
type Exists struct {
	// Field may be nil, in which case the predicate applies to the document
	// as a whole.
	Field any
	Key   any
}

func (e Exists) compile(cc *compileCtx) (string, error) {
	if e.Field == nil {
		return cc.prefixKey(e.Key, nil, "pdb.exists()")
	}
	return cc.fieldCall("exists", e.Field, e.Key, nil)
}

// RangeType tags the Postgres range type a [Range] predicate is built over.
type RangeType string

const (
	Int4Range RangeType = "int4range"
	Int8Range RangeType = "int8range"
	DateRange RangeType = "daterange"
	TsRange   RangeType = "tsrange"
	TstzRange RangeType = "tstzrange"
)

var rangeTypes = map[RangeType]bool{
	Int4Range: true, Int8Range: true, DateRange: true, TsRange: true, TstzRange: true,
}

// RangeBound tags the bound inclusivity of a [Range] predicate.
type RangeBound string

const (
	// BoundInclusiveExclusive includes the lower bound and excludes the upper.
	BoundInclusiveExclusive RangeBound = "[)"
	// BoundExclusiveInclusive excludes the lower bound and includes the upper.
	BoundExclusiveInclusive RangeBound = "(]"
	// BoundInclusive includes both bounds.
	BoundInclusive RangeBound = "[]"
	// BoundExclusive excludes both bounds.
	BoundExclusive RangeBound = "()"
)

var rangeBounds = map[RangeBound]bool{
	BoundInclusiveExclusive: true, BoundExclusiveInclusive: true,
	BoundInclusive: true, BoundExclusive: true,
}

// Range matches documents whose field value falls inside a constructed
// range. Use [NewRange]; the range type and bounds tags are validated at
// construction.
type Range struct {
	Field  any
	Type   RangeType
	Start  any
	End    any
	Bounds RangeBound
	Key    any
}

// NewRange builds a Range predicate. Bounds defaults to "[)".
func NewRange(f any, rangeType RangeType, start, end any, bounds RangeBound) (*Range, error) {
	if !rangeTypes[rangeType] {
		return nil, fmt.Errorf("invalid range type %q", rangeType)
	}
	if bounds == "" {
		bounds = BoundInclusiveExclusive
	}
	if !rangeBounds[bounds] {
		return nil, fmt.Errorf("invalid range bounds %q", bounds)
	}
	return &Range{Field: f, Type: rangeType, Start: start, End: end, Bounds: bounds}, nil
}

func (r *Range) compile(cc *compileCtx) (string, error) {
	bounds := r.Bounds
	if bounds == "" {
		bounds = BoundInclusiveExclusive
	}
	if !rangeTypes[r.Type] || !rangeBounds[bounds] {
		return "", fmt.Errorf("invalid range tags %q, %q", r.Type, bounds)
	}
	rng := fmt.Sprintf("%s(%s, %s, '%s')", r.Type, rangeValue(r.Start, r.Type), rangeValue(r.End, r.Type), bounds)
	return cc.fieldCall("range", r.Field, r.Key, []string{"range:=" + rng})
}

// rangeValue formats a range endpoint as an inline literal. Times are
// rendered as dates or timestamps depending on the range type.
func rangeValue(v any, rangeType RangeType) string {
	if t, ok := v.(time.Time); ok {
		if rangeType == DateRange {
			return "'" + t.Format("2006-01-02") + "'"
		}
		return "'" + t.Format("2006-01-02 15:04:05") + "'"
	}
	return literal(v)
}

// RangeRelation tags the topological relation tested by a [RangeTerm].
type RangeRelation string

const (
	Intersects RangeRelation = "Intersects"
	Within     RangeRelation = "Within"
	Contains   RangeRelation = "Contains"
)

var rangeRelations = map[RangeRelation]bool{
	Intersects: true, Within: true, Contains: true,
}

// RangeCast tags the SQL type a [RangeTerm] operand is cast to.
type RangeCast string

const (
	CastTsRange       RangeCast = "tsrange"
	CastInt4Range     RangeCast = "int4range"
	CastInt8Range     RangeCast = "int8range"
	CastDateRange     RangeCast = "daterange"
	CastTstzRange     RangeCast = "tstzrange"
	CastNumRange      RangeCast = "numrange"
	CastBigint        RangeCast = "bigint"
	CastDate          RangeCast = "date"
	CastDoublePrec    RangeCast = "double precision"
	CastInteger       RangeCast = "integer"
	CastNumeric       RangeCast = "numeric"
	CastReal          RangeCast = "real"
	CastSmallint      RangeCast = "smallint"
	CastChar          RangeCast = `"char"`
	CastTimestampTZ   RangeCast = "timestamp with time zone"
	CastTimestamp     RangeCast = "timestamp without time zone"
)

var rangeCasts = map[RangeCast]bool{
	CastTsRange: true, CastInt4Range: true, CastInt8Range: true,
	CastDateRange: true, CastTstzRange: true, CastNumRange: true,
	CastBigint: true, CastDate: true, CastDoublePrec: true,
	CastInteger: true, CastNumeric: true, CastReal: true,
	CastSmallint: true, CastChar: true, CastTimestampTZ: true,
	CastTimestamp: true,
}

// RangeTerm compares a scalar or range term against a range-typed field,
// optionally constrained to a topological relation. Use [NewRangeTerm]; the
// cast and relation tags are validated at construction.
type RangeTerm struct {
	Field    any
	Term     any
	Cast     RangeCast
	Relation RangeRelation
	Key      any
}

// NewRangeTerm builds a RangeTerm predicate. The relation may be empty.
func NewRangeTerm(f any, term any, cast RangeCast, relation RangeRelation) (*RangeTerm, error) {
	if !rangeCasts[cast] {
		return nil, fmt.Errorf("invalid range term cast %q", cast)
	}
	if relation != "" && !rangeRelations[relation] {
		return nil, fmt.Errorf("invalid range relation %q", relation)
	}
	return &RangeTerm{Field: f, Term: term, Cast: cast, Relation: relation}, nil
}

func (r *RangeTerm) compile(cc *compileCtx) (string, error) {
	if !rangeCasts[r.Cast] {
		return "", fmt.Errorf("invalid range term cast %q", r.Cast)
	}
	if r.Relation != "" && !rangeRelations[r.Relation] {
		return "", fmt.Errorf("invalid range relation %q", r.Relation)
	}
	args := []string{literal(r.Term) + "::" + string(r.Cast)}
	if r.Relation != "" {
		args = append(args, "'"+string(r.Relation)+"'")
	}
	return cc.fieldCall("range_term", r.Field, r.Key, args)
}

// Regex matches the field against a Tantivy regular expression.
type Regex struct {
	Field any
	Value string
	Key   any
}

func (r Regex) compile(cc *compileCtx) (string, error) {
	return cc.fieldCall("regex", r.Field, r.Key, []string{cc.param(r.Value)})
}

// Term matches a single exact term.
type Term struct {
	Field any
	Value any
	// EnumCastField optionally casts the bound value, for enum columns.
	EnumCastField string
	Key           any
}

func (t Term) compile(cc *compileCtx) (string, error) {
	arg := cc.param(t.Value)
	if t.EnumCastField != "" {
		arg += "::" + t.EnumCastField
	}
	return cc.fieldCall("term", t.Field, t.Key, []string{arg})
}

// TermSet matches documents containing any of the given terms. The terms are
// always compiled in field-qualified legacy form with no left-hand side.
type TermSet struct {
	Terms []Term
	Key   any
}

func (ts TermSet) compile(cc *compileCtx) (string, error) {
	child := cc.nested()
	terms := make([]string, len(ts.Terms))
	for i, t := range ts.Terms {
		sql, err := t.compile(child)
		if err != nil {
			return "", err
		}
		terms[i] = sql
	}
	sql := "paradedb.term_set(terms := ARRAY[" + strings.Join(terms, ", ") + "])"
	return cc.prefixKey(ts.Key, nil, sql)
}

// FuzzyTerm matches a term within an edit distance. Use [NewFuzzyTerm] to get
// the usual defaults.
type FuzzyTerm struct {
	Field                any
	Value                string
	Distance             int
	TranspositionCostOne bool
	Prefix               bool
	Key                  any
}

// NewFuzzyTerm returns a FuzzyTerm with the default tuning: distance two,
// transpositions counted as a single edit.
func NewFuzzyTerm(f any, value string) *FuzzyTerm {
	return &FuzzyTerm{Field: f, Value: value, Distance: 2, TranspositionCostOne: true}
}

func (ft *FuzzyTerm) compile(cc *compileCtx) (string, error) {
	args := []string{
		cc.param(ft.Value),
		"transposition_cost_one:=" + cc.param(ft.TranspositionCostOne),
		"prefix:=" + cc.param(ft.Prefix),
		"distance:=" + cc.param(ft.Distance),
	}
	return cc.fieldCall("fuzzy_term", ft.Field, ft.Key, args)
}

// Phrase matches consecutive terms, allowing slop intervening positions. Use
// [NewPhrase]; a phrase needs more than one term.
type Phrase struct {
	Field   any
	Phrases []string
	Slop    int
	Key     any
}

// NewPhrase builds a Phrase predicate.
func NewPhrase(f any, phrases []string, slop int) (*Phrase, error) {
	if len(phrases) < 2 {
		return nil, fmt.Errorf("phrase needs more than one term, got %d", len(phrases))
	}
	return &Phrase{Field: f, Phrases: phrases, Slop: slop}, nil
}

func (p *Phrase) compile(cc *compileCtx) (string, error) {
	if len(p.Phrases) < 2 {
		return "", fmt.Errorf("phrase needs more than one term, got %d", len(p.Phrases))
	}
	args := []string{pgArray(p.Phrases), cc.param(p.Slop)}
	return cc.fieldCall("phrase", p.Field, p.Key, args)
}

// PhrasePrefix matches a phrase whose final term is a prefix. Use
// [NewPhrasePrefix]; a phrase needs more than one term.
type PhrasePrefix struct {
	Field        any
	Phrases      []string
	MaxExpansion int
	Key          any
}

// NewPhrasePrefix builds a PhrasePrefix predicate.
func NewPhrasePrefix(f any, phrases []string, maxExpansion int) (*PhrasePrefix, error) {
	if len(phrases) < 2 {
		return nil, fmt.Errorf("phrase needs more than one term, got %d", len(phrases))
	}
	return &PhrasePrefix{Field: f, Phrases: phrases, MaxExpansion: maxExpansion}, nil
}

func (pp *PhrasePrefix) compile(cc *compileCtx) (string, error) {
	if len(pp.Phrases) < 2 {
		return "", fmt.Errorf("phrase needs more than one term, got %d", len(pp.Phrases))
	}
	args := []string{pgArray(pp.Phrases)}
	if pp.MaxExpansion != 0 {
		args = append(args, "max_expansion:="+cc.param(pp.MaxExpansion))
	}
	return cc.fieldCall("phrase_prefix", pp.Field, pp.Key, args)
}

// ConstScore wraps a child expression and assigns every match a constant
// score. The child is compiled in field-qualified form with the left-hand
// side suppressed.
type ConstScore struct {
	Score float64
	Query Expr
	Key   any
}

func (cs ConstScore) compile(cc *compileCtx) (string, error) {
	score := cc.param(cs.Score)
	inner, err := cs.Query.compile(cc.nested())
	if err != nil {
		return "", err
	}
	sql := "paradedb.const_score(" + score + "::real, " + inner + ")"
	return cc.prefixKey(cs.Key, nil, sql)
}

// Bm25Score is the BM25 relevance score of a row, usable for ordering and
// selection. It is a value expression, not a predicate.
type Bm25Score struct {
	Key any
}

func (b Bm25Score) compile(cc *compileCtx) (string, error) {
	key, err := cc.keyFor(b.Key, nil)
	if err != nil {
		return "", err
	}
	return "pdb.score(" + key + ")", nil
}

// Boost wraps a child expression and multiplies its score by a factor. The
// child is compiled in field-qualified form with the left-hand side
// suppressed.
type Boost struct {
	Factor float64
	Query  Expr
	Key    any
}

func (b Boost) compile(cc *compileCtx) (string, error) {
	factor := cc.param(b.Factor)
	inner, err := b.Query.compile(cc.nested())
	if err != nil {
		return "", err
	}
	sql := "paradedb.boost(" + factor + ", " + inner + ")"
	return cc.prefixKey(b.Key, nil, sql)
}

// DisjunctionMax scores a document by the best of its matching disjuncts,
// with a tie breaker for the rest.
type DisjunctionMax struct {
	Disjuncts  []Expr
	TieBreaker int
	Key        any
}

func (d DisjunctionMax) compile(cc *compileCtx) (string, error) {
	child := cc.nested()
	inner := make([]string, len(d.Disjuncts))
	for i, q := range d.Disjuncts {
		sql, err := q.compile(child)
		if err != nil {
			return "", err
		}
		inner[i] = sql
	}
	sql := "paradedb.disjunction_max(ARRAY[" + strings.Join(inner, ", ") +
		"], tie_breaker:=" + strconv.Itoa(d.TieBreaker) + ")"
	return cc.prefixKey(d.Key, nil, sql)
}

// Boolean combines child expressions with must, must-not and should groups.
// Use [NewBoolean]; at least one group must be non-empty. Omitted groups are
// left out of the emitted argument list entirely.
type Boolean struct {
	Must    []Expr
	MustNot []Expr
	Should  []Expr
	Key     any
}

// NewBoolean builds a Boolean combinator.
func NewBoolean(must, mustNot, should []Expr) (*Boolean, error) {
	if len(must) == 0 && len(mustNot) == 0 && len(should) == 0 {
		return nil, fmt.Errorf("boolean needs at least one of must, must_not or should")
	}
	return &Boolean{Must: must, MustNot: mustNot, Should: should}, nil
}

func (b *Boolean) compile(cc *compileCtx) (string, error) {
	if len(b.Must) == 0 && len(b.MustNot) == 0 && len(b.Should) == 0 {
		return "", fmt.Errorf("boolean needs at least one of must, must_not or should")
	}
	child := cc.nested()
	var groups []string
	for _, group := range []struct {
		name  string
		exprs []Expr
	}{{"must", b.Must}, {"must_not", b.MustNot}, {"should", b.Should}} {
		if len(group.exprs) == 0 {
			continue
		}
		inner := make([]string, len(group.exprs))
		for i, q := range group.exprs {
			sql, err := q.compile(child)
			if err != nil {
				return "", err
			}
			inner[i] = sql
		}
		groups = append(groups, group.name+" := ARRAY["+strings.Join(inner, ", ")+"]")
	}
	sql := "paradedb.boolean(" + strings.Join(groups, ", ") + ")"
	return cc.prefixKey(b.Key, nil, sql)
}

// Snippet extracts a highlighted fragment of the field. Optional knobs are
// appended as named arguments only when set.
type Snippet struct {
	Field       any
	Limit       *int
	Offset      *int
	StartTag    string
	EndTag      string
	MaxNumChars *int
	Key         any
}

func (s Snippet) compile(cc *compileCtx) (string, error) {
	display, inferred, err := cc.resolveField(s.Field)
	if err != nil {
		return "", err
	}
	args := []string{display}
	if s.Limit != nil {
		args = append(args, `"limit":=`+cc.param(*s.Limit))
	}
	if s.Offset != nil {
		args = append(args, `"offset":=`+cc.param(*s.Offset))
	}
	if s.StartTag != "" {
		args = append(args, "start_tag:="+cc.param(s.StartTag))
	}
	if s.EndTag != "" {
		args = append(args, "end_tag:="+cc.param(s.EndTag))
	}
	if s.MaxNumChars != nil {
		args = append(args, "max_num_chars:="+cc.param(*s.MaxNumChars))
	}
	sql := "pdb.snippet(" + strings.Join(args, ", ") + ")"
	return cc.prefixKey(s.Key, inferred, sql)
}

// MoreLikeThis matches documents similar to a reference document, given
// either by identifier or as a literal document. Use [NewMoreLikeThis]; one
// of the two modes is required and the identifier mode wins if both are set.
type MoreLikeThis struct {
	// DocumentID selects the reference document by identity key.
	DocumentID any
	// Document is a literal reference document, JSON-encoded on compile.
	Document map[string]any
	// Fields restricts the comparison to these fields (identifier mode only).
	Fields           []string
	MinDocFrequency  int
	MaxDocFrequency  int
	MinTermFrequency int
	MaxQueryTerms    int
	MinWordLength    int
	MaxWordLength    int
	BoostFactor      float64
	StopWords        []string
	Key              any
}

// NewMoreLikeThis validates and returns a MoreLikeThis predicate.
func NewMoreLikeThis(mlt MoreLikeThis) (*MoreLikeThis, error) {
	if mlt.DocumentID == nil && mlt.Document == nil {
		return nil, fmt.Errorf("more_like_this needs a document id or a document")
	}
	return &mlt, nil
}

func (m *MoreLikeThis) compile(cc *compileCtx) (string, error) {
	var args []string
	switch {
	case m.DocumentID != nil:
		args = append(args, "key_value:="+cc.param(m.DocumentID))
		if len(m.Fields) > 0 {
			args = append(args, "fields:="+pgArray(m.Fields))
		}
	case m.Document != nil:
		doc, err := json.Marshal(m.Document)
		if err != nil {
			return "", fmt.Errorf("cannot encode more_like_this document: %w", err)
		}
		args = append(args, "document:="+cc.param(string(doc)))
	default:
		return "", fmt.Errorf("more_like_this needs a document id or a document")
	}
	if m.MinDocFrequency != 0 {
		args = append(args, "min_doc_frequency:="+cc.param(m.MinDocFrequency))
	}
	if m.MaxDocFrequency != 0 {
		args = append(args, "max_doc_frequency:="+cc.param(m.MaxDocFrequency))
	}
	if m.MinTermFrequency != 0 {
		args = append(args, "min_term_frequency:="+cc.param(m.MinTermFrequency))
	}
	if m.MaxQueryTerms != 0 {
		args = append(args, "max_query_terms:="+cc.param(m.MaxQueryTerms))
	}
	if m.MinWordLength != 0 {
		args = append(args, "min_word_length:="+cc.param(m.MinWordLength))
	}
	if m.MaxWordLength != 0 {
		args = append(args, "max_word_length:="+cc.param(m.MaxWordLength))
	}
	if m.BoostFactor != 0 {
		args = append(args, "boost_factor:="+cc.param(m.BoostFactor))
	}
	if len(m.StopWords) > 0 {
		args = append(args, "stopwords:="+pgArray(m.StopWords))
	}
	sql := "pdb.more_like_this(" + strings.Join(args, ", ") + ")"
	return cc.prefixKey(m.Key, nil, sql)
}

// Parse passes a raw pg_search query string through to the server-side
// parser.
type Parse struct {
	Query           string
	Lenient         bool
	ConjunctionMode bool
	Key             any
}

func (p Parse) compile(cc *compileCtx) (string, error) {
	schema, err := cc.schema("parse")
	if err != nil {
		return "", err
	}
	sql := string(schema) + ".parse(" + cc.param(p.Query) +
		", lenient:=" + cc.param(p.Lenient) +
		", conjunction_mode:=" + cc.param(p.ConjunctionMode) + ")"
	return cc.prefixKey(p.Key, nil, sql)
}

// ParseWithField parses a raw query string scoped to one field. It always
// emits the current-schema two-argument form.
type ParseWithField struct {
	Field           any
	Value           string
	Lenient         bool
	ConjunctionMode bool
	Key             any
}

func (p ParseWithField) compile(cc *compileCtx) (string, error) {
	display, inferred, err := cc.resolveField(p.Field)
	if err != nil {
		return "", err
	}
	sql := "pdb.parse_with_field(" + display + ", " + cc.param(p.Value) +
		", lenient:=" + cc.param(p.Lenient) +
		", conjunction_mode:=" + cc.param(p.ConjunctionMode) + ")"
	return cc.prefixKey(p.Key, inferred, sql)
}

// JsonOp compares a JSON key path of the field against a value with the
// match operator.
type JsonOp struct {
	Field any
	Keys  []string
	Value any
}

func (j JsonOp) compile(cc *compileCtx) (string, error) {
	display, _, err := cc.resolveField(j.Field)
	if err != nil {
		return "", err
	}
	var path strings.Builder
	path.WriteString(display)
	for _, key := range j.Keys {
		path.WriteString("['" + key + "']")
	}
	rhs, err := cc.operand(j.Value)
	if err != nil {
		return "", err
	}
	return path.String() + " " + MatchOperator + " " + rhs, nil
}
