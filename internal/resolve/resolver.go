// File: resolver.go
// Title: Role-Path Resolver
// Description: Resolves role paths to object descriptors using a ladder of
//              strategies: sparse-cache lookup, cached local traversal,
//              server-side path search, and full enumeration as the
//              unconditional last resort. Soft misses fall through to the
//              next strategy; class mismatches abort immediately.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-06
// Modified: 2025-11-06
//
// Change History:
// - 2025-11-06 v0.1.0: Initial strategy-ladder resolver

package resolve

import (
	"context"

	mdcerror "github.com/msto63/mDC/foundation/core/error"
	"github.com/msto63/mDC/foundation/core/log"
	"github.com/msto63/mDC/internal/conn"
	"github.com/msto63/mDC/internal/object"
	"github.com/msto63/mDC/internal/path"
)

// Options exposes the feature flags the resolver reads. DisablePathSearch
// permanently downgrades the capability for the rest of the session when
// the server signals it is unimplemented.
type Options interface {
	SparseCacheEnabled() bool
	PathSearchEnabled() bool
	DisablePathSearch()
}

// Resolver resolves role paths against a device connection
type Resolver struct {
	device conn.Device
	cache  *Cache
	flags  Options
	logger *log.Logger
}

// New creates a resolver bound to a device, cache, and flag set
func New(device conn.Device, cache *Cache, flags Options, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.GetDefault()
	}

	return &Resolver{
		device: device,
		cache:  cache,
		flags:  flags,
		logger: logger.WithField("component", "resolver"),
	}
}

// Cache returns the sparse path cache owned by this resolver's session
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve maps a role path to an object descriptor. base is the object
// relative paths start from; basePath is its absolute role path when
// known (enables exact sparse-cache hits for relative input).
func (r *Resolver) Resolve(ctx context.Context, p path.Path, base *object.Descriptor, basePath *path.Path) (*object.Descriptor, error) {
	if base == nil {
		return nil, mdcerror.New("resolution requires a base object").
			WithCode(mdcerror.CodeInternal).
			WithOperation("resolve.Resolve")
	}

	// Special-cased single-segment inputs, before general resolution
	if len(p.Components) == 1 && !p.Absolute {
		segment := p.Components[0]

		if handle, isLiteral, err := object.ParseHandleLiteral(segment); isLiteral {
			if err != nil {
				return nil, mdcerror.Wrap(err, "bad handle literal").
					WithCode(mdcerror.CodeParameterError).
					WithOperation("resolve.Resolve")
			}
			return r.device.ResolveUnknownClass(ctx, handle)
		}

		switch segment {
		case ".":
			return base, nil
		case "..":
			return r.resolveOwner(ctx, base)
		}
	}

	start := base
	if p.Absolute {
		start = r.device.Root()
	}

	if p.IsEmpty() {
		return start, nil
	}

	if !start.IsComposite() {
		return nil, mdcerror.New("base object cannot hold children").
			WithCode(mdcerror.CodeObjectClassMismatch).
			WithOperation("resolve.Resolve").
			WithDetail("class", start.Class)
	}

	full, fullKnown := r.fullPath(p, basePath)

	// Strategy 1: exact sparse-cache hit
	if fullKnown && r.flags.SparseCacheEnabled() && r.flags.PathSearchEnabled() {
		if hit := r.cache.Get(full); hit != nil {
			r.logger.Trace("sparse cache hit", log.Fields{"path": full.String()})
			return hit, nil
		}
	}

	// Strategy 2: traversal over already-cached children
	if r.flags.SparseCacheEnabled() {
		if found, err := r.traverse(ctx, start, p.Components, true); err != nil {
			return nil, err
		} else if found != nil {
			return found, nil
		}
		// Soft miss: fall through
	}

	// Strategy 3: one server-side path search
	if r.flags.PathSearchEnabled() {
		found, err := r.searchByPath(ctx, start, p, full, fullKnown)
		if err != nil {
			return nil, err
		}
		if found != nil {
			return found, nil
		}
		// NOT_IMPLEMENTED downgrade: fall through
	}

	// Strategy 4: full enumeration, the only strategy guaranteed to work
	// with every flag disabled
	found, err := r.traverse(ctx, start, p.Components, false)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, mdcerror.New("path does not resolve to an object").
			WithCode(mdcerror.CodeObjectNotPresent).
			WithOperation("resolve.Resolve").
			WithDetail("path", p.String())
	}
	return found, nil
}

// resolveOwner maps ".." to the owner, or to the root for objects without
// an owner concept
func (r *Resolver) resolveOwner(ctx context.Context, base *object.Descriptor) (*object.Descriptor, error) {
	if !base.IsOwnable() {
		return r.device.Root(), nil
	}

	owner, err := r.device.Owner(ctx, base)
	if err != nil {
		return nil, err
	}
	if owner == object.HandleNone {
		return r.device.Root(), nil
	}
	return r.device.Resolve(ctx, owner)
}

// fullPath computes the canonical absolute path of p when possible
func (r *Resolver) fullPath(p path.Path, basePath *path.Path) (path.Path, bool) {
	if p.Absolute {
		return p, true
	}
	if basePath == nil || !basePath.Absolute {
		return path.Path{}, false
	}

	full := basePath.Clone()
	for _, component := range p.Components {
		full = full.Join(component)
	}
	return full, true
}

// traverse walks the path segment by segment. With useCache a miss on any
// segment is soft (returns nil, nil); without it a miss is definitive.
// A non-composite intermediate aborts with a class mismatch either way.
func (r *Resolver) traverse(ctx context.Context, start *object.Descriptor, components []string, useCache bool) (*object.Descriptor, error) {
	current := start

	for _, component := range components {
		if !current.IsComposite() {
			return nil, mdcerror.New("path segment is not a container").
				WithCode(mdcerror.CodeObjectClassMismatch).
				WithOperation("resolve.traverse").
				WithDetail("segment", component).
				WithDetail("class", current.Class)
		}

		children, err := r.device.ListChildren(ctx, current, useCache)
		if err != nil {
			if useCache && mdcerror.HasCode(err, mdcerror.CodeObjectNotPresent) {
				return nil, nil // soft miss
			}
			if mdcerror.HasCode(err, mdcerror.CodeObjectClassMismatch) {
				return nil, err // hard miss
			}
			if useCache {
				return nil, nil
			}
			return nil, err
		}

		// Exact equality, first match wins; duplicate sibling roles are a
		// documented ambiguity of the protocol
		var match *object.Descriptor
		for _, child := range children {
			if child.Role() == component {
				match = child
				break
			}
		}

		if match == nil {
			if useCache {
				return nil, nil
			}
			return nil, mdcerror.New("no child with this role").
				WithCode(mdcerror.CodeObjectNotPresent).
				WithOperation("resolve.traverse").
				WithDetail("segment", component)
		}

		current = match
	}

	return current, nil
}

// searchByPath runs the server-side path search. Returns (nil, nil) only
// for the capability-unimplemented downgrade; zero or multiple results is
// a definitive failure.
func (r *Resolver) searchByPath(ctx context.Context, start *object.Descriptor, p path.Path, full path.Path, fullKnown bool) (*object.Descriptor, error) {
	results, err := r.device.FindByPath(ctx, start, p)
	if err != nil {
		if mdcerror.HasCode(err, mdcerror.CodeNotImplemented) {
			r.logger.Info("server lacks path search, disabling for this session")
			r.flags.DisablePathSearch()
			return nil, nil
		}
		return nil, err
	}

	switch len(results) {
	case 0:
		return nil, mdcerror.New("path search found no object").
			WithCode(mdcerror.CodeObjectNotPresent).
			WithOperation("resolve.searchByPath").
			WithDetail("path", p.String())
	case 1:
	default:
		return nil, mdcerror.Newf("path search returned %d results", len(results)).
			WithCode(mdcerror.CodeProcessingFailed).
			WithOperation("resolve.searchByPath").
			WithDetail("path", p.String())
	}

	result := results[0]

	descriptor, err := r.device.Resolve(ctx, result.Handle)
	if err != nil {
		descriptor = object.NewDescriptorWithRole(result.Handle, result.Class, result.Role)
	}
	descriptor.SetRole(result.Role)

	if fullKnown {
		r.cache.Put(full, descriptor)
		r.logger.Trace("sparse cache insert", log.Fields{"path": full.String()})
	}

	return descriptor, nil
}
