// Package value implements the universal data carrier described by the
// query language: a tagged union over scalars, containers, and the
// language's own AST fragments (idioms, subqueries, functions, closures).
package value

// Kind tags the concrete type carried by a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindNull
	KindBool
	KindNumber
	KindStrand
	KindDuration
	KindDatetime
	KindUuid
	KindArray
	KindObject
	KindGeometry
	KindBytes
	KindThing
	KindParam
	KindIdiom
	KindTable
	KindRegex
	KindQuery
	KindSubquery
	KindFunction
	KindModel
	KindClosure
	KindMock
	KindFuture
	KindRange
	KindEdges
	KindExpression
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindStrand:
		return "strand"
	case KindDuration:
		return "duration"
	case KindDatetime:
		return "datetime"
	case KindUuid:
		return "uuid"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindGeometry:
		return "geometry"
	case KindBytes:
		return "bytes"
	case KindThing:
		return "thing"
	case KindParam:
		return "param"
	case KindIdiom:
		return "idiom"
	case KindTable:
		return "table"
	case KindRegex:
		return "regex"
	case KindQuery:
		return "query"
	case KindSubquery:
		return "subquery"
	case KindFunction:
		return "function"
	case KindModel:
		return "model"
	case KindClosure:
		return "closure"
	case KindMock:
		return "mock"
	case KindFuture:
		return "future"
	case KindRange:
		return "range"
	case KindEdges:
		return "edges"
	case KindExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// Value is the universal data carrier. Every concrete variant implements
// this interface via an unexported marker method so that the set of
// variants stays closed to this package, mirroring the closed union in
// the source language.
type Value interface {
	Kind() Kind
	String() string
	value()
}
