// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb

import (
	"encoding/json"
	"fmt"
	"time"
)

// Aggregate is an expression lowering to the JSON aggregation function. The
// emitted SQL is always "pdb.agg($n)" with the aggregation document bound as
// one JSON parameter; aggregates are value expressions, not predicates.
type Aggregate interface {
	Expr
	aggJSON() (map[string]any, error)
}

func aggCompile(cc *compileCtx, a Aggregate) (string, error) {
	m, err := a.aggJSON()
	if err != nil {
		return "", err
	}
	doc, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("cannot encode aggregation: %w", err)
	}
	return "pdb.agg(" + cc.param(string(doc)) + ")", nil
}

// Count counts the documents holding a value for the field.
type Count struct {
	// Field defaults to "id".
	Field string
}

func (c Count) compile(cc *compileCtx) (string, error) { return aggCompile(cc, c) }

func (c Count) aggJSON() (map[string]any, error) {
	f := c.Field
	if f == "" {
		f = "id"
	}
	return map[string]any{"value_count": map[string]any{"field": f}}, nil
}

// AggOrder orders a term aggregation's buckets by "_count", "_key", or the
// name of a sub-aggregation metric. Use [NewAggOrder].
type AggOrder struct {
	Target string
	Order  string
}

// NewAggOrder validates and returns a bucket ordering.
func NewAggOrder(target, order string) (*AggOrder, error) {
	if order != "asc" && order != "desc" {
		return nil, fmt.Errorf(`order must be "asc" or "desc", got %q`, order)
	}
	return &AggOrder{Target: target, Order: order}, nil
}

func (o *AggOrder) json() map[string]any {
	return map[string]any{o.Target: o.Order}
}

// TermAgg buckets documents by distinct field terms, optionally carrying
// nested sub-aggregations. Zero-valued knobs are omitted from the document.
type TermAgg struct {
	Field                 string
	Order                 *AggOrder
	Size                  int
	SegmentSize           int
	MinDocCount           int
	Missing               any
	ShowTermDocCountError bool
	// Aggs nests sub-aggregation documents keyed by name.
	Aggs map[string]any
}

func (t TermAgg) compile(cc *compileCtx) (string, error) { return aggCompile(cc, t) }

func (t TermAgg) aggJSON() (map[string]any, error) {
	terms := map[string]any{"field": t.Field}
	if t.Order != nil {
		if t.Order.Order != "asc" && t.Order.Order != "desc" {
			return nil, fmt.Errorf(`order must be "asc" or "desc", got %q`, t.Order.Order)
		}
		terms["order"] = t.Order.json()
	}
	if t.Size > 0 {
		terms["size"] = t.Size
	}
	if t.SegmentSize > 0 {
		terms["segment_size"] = t.SegmentSize
	}
	if t.MinDocCount > 0 {
		terms["min_doc_count"] = t.MinDocCount
	}
	if t.Missing != nil {
		terms["missing"] = t.Missing
	}
	if t.ShowTermDocCountError {
		terms["show_term_doc_count_error"] = t.ShowTermDocCountError
	}
	m := map[string]any{"terms": terms}
	if t.Aggs != nil {
		m["aggs"] = t.Aggs
	}
	return m, nil
}

// HistogramBound bounds a histogram's bucketed value range.
type HistogramBound struct {
	Min float64
	Max float64
}

func (b HistogramBound) json() map[string]any {
	return map[string]any{"min": b.Min, "max": b.Max}
}

// Histogram buckets numeric field values into fixed intervals. Use
// [NewHistogram]; extended bounds require hard bounds and are mutually
// exclusive with a minimum document count.
type Histogram struct {
	Field          string
	Interval       string
	Offset         string
	MinDocCount    *int
	HardBounds     *HistogramBound
	ExtendedBounds *HistogramBound
	Keyed          bool
	NormalizedToNs bool
}

// NewHistogram validates and returns a keyed histogram aggregation.
func NewHistogram(h Histogram) (*Histogram, error) {
	if h.MinDocCount != nil && h.ExtendedBounds != nil {
		return nil, fmt.Errorf("cannot set both min_doc_count and extended_bounds")
	}
	if h.ExtendedBounds != nil && h.HardBounds == nil {
		return nil, fmt.Errorf("cannot set extended_bounds without hard_bounds")
	}
	h.Keyed = true
	return &h, nil
}

func (h *Histogram) compile(cc *compileCtx) (string, error) { return aggCompile(cc, h) }

func (h *Histogram) aggJSON() (map[string]any, error) {
	inner := map[string]any{"field": h.Field, "interval": h.Interval}
	if h.Offset != "" {
		inner["offset"] = h.Offset
	}
	if h.MinDocCount != nil {
		inner["min_doc_count"] = *h.MinDocCount
	}
	if h.HardBounds != nil {
		inner["hard_bounds"] = h.HardBounds.json()
	}
	if h.ExtendedBounds != nil {
		inner["extended_bounds"] = h.ExtendedBounds.json()
	}
	inner["keyed"] = h.Keyed
	inner["is_normalized_to_ns"] = h.NormalizedToNs
	return map[string]any{"histogram": inner}, nil
}

// DateHistogram buckets datetime field values into fixed calendar intervals.
// Use [NewDateHistogram]; the bounds constraints match [NewHistogram].
type DateHistogram struct {
	Field          string
	FixedInterval  string
	Offset         string
	MinDocCount    *int
	HardBounds     *HistogramBound
	ExtendedBounds *HistogramBound
	Keyed          bool
}

// NewDateHistogram validates and returns a keyed date histogram aggregation.
func NewDateHistogram(h DateHistogram) (*DateHistogram, error) {
	if h.MinDocCount != nil && h.ExtendedBounds != nil {
		return nil, fmt.Errorf("cannot set both min_doc_count and extended_bounds")
	}
	if h.ExtendedBounds != nil && h.HardBounds == nil {
		return nil, fmt.Errorf("cannot set extended_bounds without hard_bounds")
	}
	h.Keyed = true
	return &h, nil
}

func (h *DateHistogram) compile(cc *compileCtx) (string, error) { return aggCompile(cc, h) }

func (h *DateHistogram) aggJSON() (map[string]any, error) {
	inner := map[string]any{"field": h.Field, "fixed_interval": h.FixedInterval}
	if h.Offset != "" {
		inner["offset"] = h.Offset
	}
	if h.MinDocCount != nil {
		inner["min_doc_count"] = *h.MinDocCount
	}
	if h.HardBounds != nil {
		inner["hard_bounds"] = h.HardBounds.json()
	}
	if h.ExtendedBounds != nil {
		inner["extended_bounds"] = h.ExtendedBounds.json()
	}
	inner["keyed"] = h.Keyed
	return map[string]any{"date_histogram": inner}, nil
}

// AggRange is one bucket of a range aggregation. From and To accept numbers
// or [time.Time] values, the latter reduced to Unix timestamps.
type AggRange struct {
	From any
	To   any
	// Key optionally names the bucket.
	Key string
}

func (r AggRange) json() map[string]any {
	m := map[string]any{"from": aggRangeValue(r.From), "to": aggRangeValue(r.To)}
	if r.Key != "" {
		m["key"] = r.Key
	}
	return m
}

func aggRangeValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return float64(t.Unix())
	}
	return v
}

// RangeAgg buckets documents into explicit value ranges.
type RangeAgg struct {
	Field  string
	Ranges []AggRange
	Keyed  bool
}

// NewRangeAgg returns a keyed range aggregation.
func NewRangeAgg(field string, ranges ...AggRange) *RangeAgg {
	return &RangeAgg{Field: field, Ranges: ranges, Keyed: true}
}

func (r *RangeAgg) compile(cc *compileCtx) (string, error) { return aggCompile(cc, r) }

func (r *RangeAgg) aggJSON() (map[string]any, error) {
	ranges := make([]map[string]any, len(r.Ranges))
	for i, rr := range r.Ranges {
		ranges[i] = rr.json()
	}
	return map[string]any{"range": map[string]any{
		"field": r.Field, "ranges": ranges, "keyed": r.Keyed,
	}}, nil
}

// metricAgg is the shared shape of the single-field metric aggregations.
func metricAgg(op, fieldName string, missing any) map[string]any {
	inner := map[string]any{"field": fieldName}
	if missing != nil {
		inner["missing"] = missing
	}
	return map[string]any{op: inner}
}

// Avg computes the mean of the field. Missing, when non-nil, substitutes for
// absent values; the same knob applies to the other metric aggregations.
type Avg struct {
	Field   string
	Missing any
}

func (a Avg) compile(cc *compileCtx) (string, error) { return aggCompile(cc, a) }
func (a Avg) aggJSON() (map[string]any, error) {
	return metricAgg("avg", a.Field, a.Missing), nil
}

// Cardinality estimates the number of distinct field values.
type Cardinality struct {
	Field   string
	Missing any
}

func (a Cardinality) compile(cc *compileCtx) (string, error) { return aggCompile(cc, a) }
func (a Cardinality) aggJSON() (map[string]any, error) {
	return metricAgg("cardinality", a.Field, a.Missing), nil
}

// Sum totals the field.
type Sum struct {
	Field   string
	Missing any
}

func (a Sum) compile(cc *compileCtx) (string, error) { return aggCompile(cc, a) }
func (a Sum) aggJSON() (map[string]any, error) {
	return metricAgg("sum", a.Field, a.Missing), nil
}

// Max takes the maximum of the field.
type Max struct {
	Field   string
	Missing any
}

func (a Max) compile(cc *compileCtx) (string, error) { return aggCompile(cc, a) }
func (a Max) aggJSON() (map[string]any, error) {
	return metricAgg("max", a.Field, a.Missing), nil
}

// Min takes the minimum of the field.
type Min struct {
	Field   string
	Missing any
}

func (a Min) compile(cc *compileCtx) (string, error) { return aggCompile(cc, a) }
func (a Min) aggJSON() (map[string]any, error) {
	return metricAgg("min", a.Field, a.Missing), nil
}

// Stats computes count, sum, min, max and average of the field in one pass.
type Stats struct {
	Field   string
	Missing any
}

func (a Stats) compile(cc *compileCtx) (string, error) { return aggCompile(cc, a) }
func (a Stats) aggJSON() (map[string]any, error) {
	return metricAgg("stats", a.Field, a.Missing), nil
}

// Percentile computes the requested percentiles of the field. Use
// [NewPercentile].
type Percentile struct {
	Field    string
	Percents []float64
	Missing  any
	Keyed    bool
}

// NewPercentile returns a keyed percentiles aggregation.
func NewPercentile(field string, percents ...float64) *Percentile {
	return &Percentile{Field: field, Percents: percents, Keyed: true}
}

func (p *Percentile) compile(cc *compileCtx) (string, error) { return aggCompile(cc, p) }

func (p *Percentile) aggJSON() (map[string]any, error) {
	inner := map[string]any{"field": p.Field}
	if p.Percents != nil {
		inner["percents"] = p.Percents
	}
	inner["keyed"] = p.Keyed
	if p.Missing != nil {
		inner["missing"] = p.Missing
	}
	return map[string]any{"percentiles": inner}, nil
}

// TopHitSort orders the documents selected by a [TopHit] aggregation.
type TopHitSort struct {
	Field string
	Order string
}

// TopHit selects the highest-ranked documents per bucket. Use [NewTopHit];
// at least one sort entry is required.
type TopHit struct {
	Sort []TopHitSort
	Size int
	From *int
	// DocvalueFields restricts the returned stored fields.
	DocvalueFields []string
}

// NewTopHit validates and returns a top-hits aggregation.
func NewTopHit(size int, sort ...TopHitSort) (*TopHit, error) {
	if len(sort) == 0 {
		return nil, fmt.Errorf("top_hits needs at least one sort entry")
	}
	for _, s := range sort {
		if s.Order != "asc" && s.Order != "desc" {
			return nil, fmt.Errorf(`order must be "asc" or "desc", got %q`, s.Order)
		}
	}
	return &TopHit{Sort: sort, Size: size}, nil
}

func (t *TopHit) compile(cc *compileCtx) (string, error) { return aggCompile(cc, t) }

func (t *TopHit) aggJSON() (map[string]any, error) {
	sort := make([]map[string]any, len(t.Sort))
	for i, s := range t.Sort {
		if s.Order != "asc" && s.Order != "desc" {
			return nil, fmt.Errorf(`order must be "asc" or "desc", got %q`, s.Order)
		}
		sort[i] = map[string]any{s.Field: s.Order}
	}
	inner := map[string]any{"sort": sort, "size": t.Size}
	if t.From != nil {
		inner["from"] = *t.From
	}
	if t.DocvalueFields != nil {
		inner["docvalue_fields"] = t.DocvalueFields
	}
	return map[string]any{"top_hits": inner}, nil
}

// Facet runs an aggregate over the whole filtered result set as a window
// function, so facet counts come back alongside the matched rows.
type Facet struct {
	Aggregate Aggregate
}

func (f Facet) compile(cc *compileCtx) (string, error) {
	inner, err := f.Aggregate.compile(cc)
	if err != nil {
		return "", err
	}
	return inner + " OVER ()", nil
}
