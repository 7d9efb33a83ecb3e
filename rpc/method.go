package rpc

// Method is the closed set of RPC method names the dispatcher routes on.
// Names are stringly-typed on the wire; ParseMethod maps them into this
// enum so a caller of Dispatch never matches on a raw string.
type Method uint8

const (
	MethodUnknown Method = iota
	MethodPing
	MethodInfo
	MethodUse
	MethodSignup
	MethodSignin
	MethodInvalidate
	MethodAuthenticate
	MethodKill
	MethodLive
	MethodSet
	MethodUnset
	MethodSelect
	MethodInsert
	MethodCreate
	MethodUpsert
	MethodUpdate
	MethodMerge
	MethodPatch
	MethodDelete
	MethodVersion
	MethodQuery
	MethodRelate
	MethodRun
	MethodGraphQL
)

var methodNames = map[string]Method{
	"ping":         MethodPing,
	"info":         MethodInfo,
	"use":          MethodUse,
	"signup":       MethodSignup,
	"signin":       MethodSignin,
	"invalidate":   MethodInvalidate,
	"authenticate": MethodAuthenticate,
	"kill":         MethodKill,
	"live":         MethodLive,
	"set":          MethodSet,
	"let":          MethodSet,
	"unset":        MethodUnset,
	"select":       MethodSelect,
	"insert":       MethodInsert,
	"create":       MethodCreate,
	"upsert":       MethodUpsert,
	"update":       MethodUpdate,
	"merge":        MethodMerge,
	"patch":        MethodPatch,
	"delete":       MethodDelete,
	"version":      MethodVersion,
	"query":        MethodQuery,
	"relate":       MethodRelate,
	"run":          MethodRun,
	"graphql":      MethodGraphQL,
}

func (m Method) String() string {
	for name, mm := range methodNames {
		if mm == m && name != "let" {
			return name
		}
	}
	return "unknown"
}

// ParseMethod maps a wire method name onto the closed enum, returning
// MethodUnknown for anything it doesn't recognise.
func ParseMethod(name string) Method {
	if m, ok := methodNames[name]; ok {
		return m
	}
	return MethodUnknown
}

// mutatingMethods is the set the read-only dispatch surface rejects with
// MethodNotFound, per spec.md §4.2.
var mutatingMethods = map[Method]bool{
	MethodUse:          true,
	MethodSignup:       true,
	MethodSignin:       true,
	MethodInvalidate:   true,
	MethodAuthenticate: true,
	MethodKill:         true,
	MethodLive:         true,
	MethodSet:          true,
	MethodUnset:        true,
}
