// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rahulsingh3292/paradedb-go/internal/field"
)

// literal renders a value as inline SQL text. Strings are quoted with
// backslashes and single quotes doubled; nil becomes NULL; times are
// formatted as timestamps; decimals keep their exact representation.
func literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		s := strings.ReplaceAll(val, `\`, `\\`)
		s = strings.ReplaceAll(s, "'", "''")
		return "'" + s + "'"
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return "'" + val.Format("2006-01-02 15:04:05") + "'"
	case decimal.Decimal:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// pgArray renders an ordered sequence as a SQL array literal with each
// element individually escaped.
func pgArray[T any](vals []T) string {
	items := make([]string, len(vals))
	for i, v := range vals {
		items[i] = literal(v)
	}
	return "ARRAY[" + strings.Join(items, ", ") + "]"
}

// queryEscapePattern matches the pg_search query-string characters that need
// a backslash escape.
var queryEscapePattern = regexp.MustCompile("([+^`:{}\"\\[\\]()<>~!\\\\*\\s,])")

// EscapeQuery escapes the special characters of the pg_search query syntax
// by prefixing each with a backslash.
func EscapeQuery(s string) string {
	return queryEscapePattern.ReplaceAllString(s, `\$1`)
}

// operand encodes a right-hand value. Sub-expressions are compiled in place
// with their parameters threaded through the shared accumulator; ordered
// sequences of any element type become array literals, except byte slices,
// which stay a single scalar; field references resolve to columns; every
// other scalar binds as a parameter.
func (cc *compileCtx) operand(v any) (string, error) {
	switch val := v.(type) {
	case Expr:
		sub := *cc
		sub.matchOp = false
		return val.compile(&sub)
	case []any:
		return pgArray(val), nil
	case []string:
		return pgArray(val), nil
	case []int:
		return pgArray(val), nil
	case []byte:
		return cc.param(val), nil
	case field.Ref:
		display, _, err := cc.resolveField(val)
		return display, err
	default:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice {
			items := make([]any, rv.Len())
			for i := range items {
				items[i] = rv.Index(i).Interface()
			}
			return pgArray(items), nil
		}
		return cc.param(val), nil
	}
}
