// File: path.go
// Title: Role Path Grammar
// Description: Pure parsing and formatting of slash-separated role paths.
//              A role path is an ordered sequence of human-readable names
//              plus an absolute/relative flag. No I/O and no normalization
//              of "." or ".." happens at this layer.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-04
// Modified: 2025-11-04
//
// Change History:
// - 2025-11-04 v0.1.0: Initial implementation of the path grammar

package path

import (
	"strings"

	"github.com/msto63/mDC/foundation/utils/stringx"
)

// Separator is the role path component separator
const Separator = "/"

// Path represents a parsed role path
type Path struct {
	Components []string
	Absolute   bool
}

// Root is the absolute empty path denoting the root container
var Root = Path{Absolute: true}

// Parse splits a path string into components and an absolute flag.
// A leading "/" marks the path absolute; "/" parses to ([], true) and
// "" parses to ([], false). "." and ".." stay ordinary components.
func Parse(s string) Path {
	if s == "" {
		return Path{}
	}

	absolute := strings.HasPrefix(s, Separator)
	trimmed := strings.Trim(s, Separator)
	if trimmed == "" {
		return Path{Absolute: absolute}
	}

	return Path{
		Components: strings.Split(trimmed, Separator),
		Absolute:   absolute,
	}
}

// Format joins components into a path string. When escape is set and any
// component contains whitespace, the whole result is wrapped in double
// quotes so it survives shell tokenization as a single argument.
func Format(components []string, absolute, escape bool) string {
	var sb strings.Builder

	if absolute {
		sb.WriteString(Separator)
	}
	sb.WriteString(strings.Join(components, Separator))

	result := sb.String()
	if result == "" {
		// A relative empty path formats to the empty string
		return result
	}

	if escape {
		for _, component := range components {
			if stringx.ContainsWhitespace(component) {
				return `"` + result + `"`
			}
		}
	}

	return result
}

// String returns the canonical display form of the path
func (p Path) String() string {
	return Format(p.Components, p.Absolute, false)
}

// IsRoot reports whether the path is the absolute empty path
func (p Path) IsRoot() bool {
	return p.Absolute && len(p.Components) == 0
}

// IsEmpty reports whether the path has no components
func (p Path) IsEmpty() bool {
	return len(p.Components) == 0
}

// Join returns a new path with one more trailing component
func (p Path) Join(name string) Path {
	components := make([]string, 0, len(p.Components)+1)
	components = append(components, p.Components...)
	components = append(components, name)

	return Path{Components: components, Absolute: p.Absolute}
}

// Parent returns the path with the last component removed. The parent of
// an empty path is the path itself.
func (p Path) Parent() Path {
	if len(p.Components) == 0 {
		return p
	}

	components := make([]string, len(p.Components)-1)
	copy(components, p.Components)

	return Path{Components: components, Absolute: p.Absolute}
}

// Leaf returns the last component, or "" for an empty path
func (p Path) Leaf() string {
	if len(p.Components) == 0 {
		return ""
	}
	return p.Components[len(p.Components)-1]
}

// Equal compares two paths component-wise
func (p Path) Equal(other Path) bool {
	if p.Absolute != other.Absolute || len(p.Components) != len(other.Components) {
		return false
	}
	for i, component := range p.Components {
		if other.Components[i] != component {
			return false
		}
	}
	return true
}

// IsStrictChildOf reports whether p is exactly one level below parent
func (p Path) IsStrictChildOf(parent Path) bool {
	if p.Absolute != parent.Absolute {
		return false
	}
	if len(p.Components) != len(parent.Components)+1 {
		return false
	}
	for i, component := range parent.Components {
		if p.Components[i] != component {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the path
func (p Path) Clone() Path {
	components := make([]string, len(p.Components))
	copy(components, p.Components)
	return Path{Components: components, Absolute: p.Absolute}
}
