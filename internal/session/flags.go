// File: flags.go
// Title: Session Feature Flags
// Description: Independent boolean feature flags controlling resolution
//              strategy and property handling. Flags change only through
//              explicit set/clear commands, with one exception: the server
//              path-search flag is cleared permanently once the server
//              signals the capability is unimplemented.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-07
// Modified: 2025-11-07
//
// Change History:
// - 2025-11-07 v0.1.0: Initial flag set

package session

import (
	"sort"

	mdcerror "github.com/msto63/mDC/foundation/core/error"
)

// Canonical flag names, used by the set-flag/clear-flag commands
const (
	FlagCacheProperties  = "cacheProperties"
	FlagSubscribeEvents  = "subscribeEvents"
	FlagSparsePathCache  = "enableSparsePathCache"
	FlagPathSearch       = "supportsFindActionObjectsByPath"
	FlagRefreshOnConnect = "refreshTreeOnConnect"
	FlagAutoReconnect    = "autoReconnect"
	FlagTrace            = "trace"
)

// Flags holds the session feature flags. Mutation happens only from the
// single active command, so no locking.
type Flags struct {
	values map[string]bool
}

// NewFlags creates the default flag set: property caching and both
// resolver acceleration flags start enabled, everything else disabled
func NewFlags() *Flags {
	return &Flags{values: map[string]bool{
		FlagCacheProperties:  true,
		FlagSubscribeEvents:  false,
		FlagSparsePathCache:  true,
		FlagPathSearch:       true,
		FlagRefreshOnConnect: false,
		FlagAutoReconnect:    false,
		FlagTrace:            false,
	}}
}

// Set enables a flag by canonical name
func (f *Flags) Set(name string) error {
	return f.apply(name, true)
}

// Clear disables a flag by canonical name
func (f *Flags) Clear(name string) error {
	return f.apply(name, false)
}

func (f *Flags) apply(name string, value bool) error {
	if _, known := f.values[name]; !known {
		return mdcerror.Newf("unknown flag %q", name).
			WithCode(mdcerror.CodeParameterError).
			WithOperation("session.Flags").
			WithDetail("flag", name)
	}
	f.values[name] = value
	return nil
}

// Enabled reports whether a flag is set; unknown names report false
func (f *Flags) Enabled(name string) bool {
	return f.values[name]
}

// Names returns all flag names, sorted
func (f *Flags) Names() []string {
	names := make([]string, 0, len(f.values))
	for name := range f.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// The resolver reads flags through this interface

// SparseCacheEnabled reports the sparse path cache flag
func (f *Flags) SparseCacheEnabled() bool {
	return f.values[FlagSparsePathCache]
}

// PathSearchEnabled reports the server path-search flag
func (f *Flags) PathSearchEnabled() bool {
	return f.values[FlagPathSearch]
}

// DisablePathSearch clears the server path-search flag for the rest of
// the session (capability downgrade, not a user action)
func (f *Flags) DisablePathSearch() {
	f.values[FlagPathSearch] = false
}
