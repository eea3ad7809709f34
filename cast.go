// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb

// ValueCast is a value bound as a parameter and cast to an explicit SQL type.
// It can be used wherever a sub-expression value is accepted, for example as
// the right-hand side of a [Search].
type ValueCast struct {
	// Value is bound as a query parameter.
	Value any
	// Cast is the SQL type the parameter is cast to.
	Cast string
}

func (v ValueCast) compile(cc *compileCtx) (string, error) {
	return cc.param(v.Value) + "::" + v.Cast, nil
}
