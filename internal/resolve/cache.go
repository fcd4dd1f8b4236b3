// File: cache.go
// Title: Sparse Path Cache
// Description: A session-local cache of previously resolved path/object
//              pairs. Populated only by the server path-search strategy,
//              never by full enumeration; the only eviction is an explicit
//              session-wide clear. A hit is best-effort consistent with
//              full enumeration and never re-verified after insertion.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-06
// Modified: 2025-11-06
//
// Change History:
// - 2025-11-06 v0.1.0: Initial sparse path cache

package resolve

import (
	"github.com/msto63/mDC/internal/object"
	"github.com/msto63/mDC/internal/path"
)

// Cache maps canonical absolute path strings to object descriptors.
// All access happens from the single active command, so no locking.
type Cache struct {
	entries map[string]cacheEntry
}

type cacheEntry struct {
	path       path.Path
	descriptor *object.Descriptor
}

// NewCache creates an empty sparse path cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the descriptor cached for an exact full path, or nil
func (c *Cache) Get(p path.Path) *object.Descriptor {
	if entry, ok := c.entries[p.String()]; ok {
		return entry.descriptor
	}
	return nil
}

// Put inserts a path/descriptor pair
func (c *Cache) Put(p path.Path, d *object.Descriptor) {
	c.entries[p.String()] = cacheEntry{path: p.Clone(), descriptor: d}
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	return len(c.entries)
}

// ChildrenOf returns the cached paths that are strict children of parent,
// used to enrich the completion set
func (c *Cache) ChildrenOf(parent path.Path) []path.Path {
	var children []path.Path
	for _, entry := range c.entries {
		if entry.path.IsStrictChildOf(parent) {
			children = append(children, entry.path)
		}
	}
	return children
}
