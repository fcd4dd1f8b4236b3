// File: object.go
// Title: Remote Object Model
// Description: Defines object handles, the handle literal syntax, and the
//              object descriptor that pairs a handle with its class
//              identity. Descriptors are immutable once obtained except for
//              the opportunistically cached role name.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-04
// Modified: 2025-11-04
//
// Change History:
// - 2025-11-04 v0.1.0: Initial object model

package object

import (
	"fmt"
	"strconv"
	"strings"
)

// Handle is an opaque numeric identifier for a remote object, stable for
// the lifetime of a connection
type Handle uint32

const (
	// HandleNone denotes "no object"
	HandleNone Handle = 0

	// HandleRoot is the well-known handle of the root container
	HandleRoot Handle = 1
)

// String returns the bracketed literal form of the handle
func (h Handle) String() string {
	return fmt.Sprintf("[%d]", uint32(h))
}

// ParseHandleLiteral recognizes the bracketed handle syntax "[n]" with n
// decimal or 0x-prefixed hex. The second result is false when the input
// is not a handle literal at all.
func ParseHandleLiteral(s string) (Handle, bool, error) {
	if len(s) < 3 || !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return HandleNone, false, nil
	}

	body := s[1 : len(s)-1]
	value, err := strconv.ParseUint(body, 0, 32)
	if err != nil {
		return HandleNone, true, fmt.Errorf("invalid handle literal %q: %w", s, err)
	}

	return Handle(value), true, nil
}

// Descriptor is the minimum needed to address a remote object and know
// its capability set. The role name is cached once known; everything else
// never changes after construction.
type Descriptor struct {
	Handle Handle
	Class  ClassID

	role string
}

// NewDescriptor creates a descriptor for a handle with a known class
func NewDescriptor(handle Handle, class ClassID) *Descriptor {
	return &Descriptor{Handle: handle, Class: class}
}

// NewDescriptorWithRole creates a descriptor with an already-known role
func NewDescriptorWithRole(handle Handle, class ClassID, role string) *Descriptor {
	return &Descriptor{Handle: handle, Class: class, role: role}
}

// Role returns the cached role name, or "" when not yet known
func (d *Descriptor) Role() string {
	return d.role
}

// SetRole caches the role name. The first caller wins; later calls with a
// different value are ignored to keep the descriptor effectively immutable.
func (d *Descriptor) SetRole(role string) {
	if d.role == "" {
		d.role = role
	}
}

// IsComposite reports whether the object can hold children
func (d *Descriptor) IsComposite() bool {
	return HasCapability(d.Class, CapComposite)
}

// IsOwnable reports whether the object has an owner
func (d *Descriptor) IsOwnable() bool {
	return HasCapability(d.Class, CapOwnable)
}

// String returns a display form: role when known, handle literal otherwise
func (d *Descriptor) String() string {
	if d.role != "" {
		return fmt.Sprintf("%s%s", d.role, d.Handle)
	}
	return d.Handle.String()
}
