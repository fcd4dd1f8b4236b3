// File: args.go
// Title: Typed Positional Argument Binder
// Description: Declares argument slots as an ordered list of typed
//              descriptors and binds input tokens against them. A parser
//              table indexed by a type tag replaces any runtime
//              introspection; object-typed slots go through the role-path
//              resolver of the current session.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-08
// Modified: 2025-11-08
//
// Change History:
// - 2025-11-08 v0.1.0: Initial argument binder

package shell

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	mdcerror "github.com/msto63/mDC/foundation/core/error"
	"github.com/msto63/mDC/foundation/utils/stringx"
	"github.com/msto63/mDC/internal/object"
	"github.com/msto63/mDC/internal/session"
)

// ArgType tags the parser used for an argument slot
type ArgType int

const (
	ArgString ArgType = iota
	ArgBool
	ArgInt
	ArgUint
	ArgFloat
	ArgURL
	ArgObject
)

// String returns the type tag name used in help output
func (t ArgType) String() string {
	switch t {
	case ArgString:
		return "string"
	case ArgBool:
		return "bool"
	case ArgInt:
		return "int"
	case ArgUint:
		return "uint"
	case ArgFloat:
		return "float"
	case ArgURL:
		return "url"
	case ArgObject:
		return "object"
	default:
		return "unknown"
	}
}

// ArgSpec describes one positional argument slot
type ArgSpec struct {
	Name string
	Type ArgType
}

// value holds one bound argument. Exactly one variant is meaningful,
// selected by the slot's declared type.
type value struct {
	set bool

	s   string
	b   bool
	i   int64
	u   uint64
	f   float64
	url *url.URL
	obj *object.Descriptor
}

// Args carries the bound argument values of one dispatch, positionally
// aligned with the command's declared slots
type Args struct {
	specs  []ArgSpec
	values []value
}

func newArgs(specs []ArgSpec) *Args {
	return &Args{specs: specs, values: make([]value, len(specs))}
}

// Bound reports whether the slot at index received a token
func (a *Args) Bound(index int) bool {
	return index < len(a.values) && a.values[index].set
}

// String returns the string value of a slot, or def when unset
func (a *Args) String(index int, def string) string {
	if !a.Bound(index) {
		return def
	}
	return a.values[index].s
}

// Bool returns the boolean value of a slot, or def when unset
func (a *Args) Bool(index int, def bool) bool {
	if !a.Bound(index) {
		return def
	}
	return a.values[index].b
}

// Int returns the signed integer value of a slot, or def when unset
func (a *Args) Int(index int, def int64) int64 {
	if !a.Bound(index) {
		return def
	}
	return a.values[index].i
}

// Uint returns the unsigned integer value of a slot, or def when unset
func (a *Args) Uint(index int, def uint64) uint64 {
	if !a.Bound(index) {
		return def
	}
	return a.values[index].u
}

// Float returns the floating point value of a slot, or def when unset
func (a *Args) Float(index int, def float64) float64 {
	if !a.Bound(index) {
		return def
	}
	return a.values[index].f
}

// URL returns the URL value of a slot, or nil when unset
func (a *Args) URL(index int) *url.URL {
	if !a.Bound(index) {
		return nil
	}
	return a.values[index].url
}

// Object returns the resolved object of a slot, or nil when unset
func (a *Args) Object(index int) *object.Descriptor {
	if !a.Bound(index) {
		return nil
	}
	return a.values[index].obj
}

// bind parses token into the slot at index according to its declared type
func (a *Args) bind(ctx context.Context, s *session.Session, index int, token string) error {
	spec := a.specs[index]
	v := &a.values[index]

	switch spec.Type {
	case ArgString:
		v.s = token

	case ArgBool:
		b, err := parseTruthy(token)
		if err != nil {
			return bindError(spec, token, err)
		}
		v.b = b

	case ArgInt:
		i, err := parseSigned(token)
		if err != nil {
			return bindError(spec, token, err)
		}
		v.i = i

	case ArgUint:
		u, err := parseUnsigned(token)
		if err != nil {
			return bindError(spec, token, err)
		}
		v.u = u

	case ArgFloat:
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return bindError(spec, token, err)
		}
		v.f = f

	case ArgURL:
		u, err := url.Parse(token)
		if err != nil {
			return bindError(spec, token, err)
		}
		v.url = u

	case ArgObject:
		obj, err := s.ResolveTarget(ctx, token)
		if err != nil {
			return err
		}
		v.obj = obj

	default:
		return mdcerror.Newf("argument %q has unknown type tag %d", spec.Name, spec.Type).
			WithCode(mdcerror.CodeParameterError).
			WithOperation("shell.bind")
	}

	v.set = true
	return nil
}

func bindError(spec ArgSpec, token string, cause error) error {
	return mdcerror.Wrap(cause, fmt.Sprintf("cannot parse argument %q as %s", spec.Name, spec.Type)).
		WithCode(mdcerror.CodeParameterError).
		WithOperation("shell.bind").
		WithDetail("token", token)
}

// parseTruthy accepts the usual boolean spellings
func parseTruthy(token string) (bool, error) {
	switch {
	case stringx.EqualsIgnoreCase(token, "true"),
		stringx.EqualsIgnoreCase(token, "yes"),
		stringx.EqualsIgnoreCase(token, "on"),
		token == "1":
		return true, nil
	case stringx.EqualsIgnoreCase(token, "false"),
		stringx.EqualsIgnoreCase(token, "no"),
		stringx.EqualsIgnoreCase(token, "off"),
		token == "0":
		return false, nil
	}
	return false, mdcerror.Newf("not a boolean: %q", token)
}

// parseSigned accepts decimal or 0x-prefixed hex
func parseSigned(token string) (int64, error) {
	if hex, ok := stripHexPrefix(token); ok {
		return strconv.ParseInt(hex, 16, 64)
	}
	return strconv.ParseInt(token, 10, 64)
}

// parseUnsigned accepts decimal or 0x-prefixed hex
func parseUnsigned(token string) (uint64, error) {
	if hex, ok := stripHexPrefix(token); ok {
		return strconv.ParseUint(hex, 16, 64)
	}
	return strconv.ParseUint(token, 10, 64)
}

func stripHexPrefix(token string) (string, bool) {
	if strings.HasPrefix(token, "0x") || strings.HasPrefix(token, "0X") {
		return token[2:], true
	}
	return token, false
}
