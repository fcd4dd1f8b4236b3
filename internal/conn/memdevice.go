// File: memdevice.go
// Title: In-Memory Device Implementation
// Description: Implements the Device interface against an in-process object
//              tree. Used by the unit tests and by the "mem" transport for
//              offline exploration. Mirrors remote semantics closely enough
//              to exercise the resolver strategy ladder, including the
//              optional server-side path search capability.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-05
// Modified: 2025-11-05
//
// Change History:
// - 2025-11-05 v0.1.0: Initial in-memory device

package conn

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	mdcerror "github.com/msto63/mDC/foundation/core/error"
	"github.com/msto63/mDC/foundation/core/log"
	"github.com/msto63/mDC/foundation/utils/stringx"
	"github.com/msto63/mDC/internal/object"
	"github.com/msto63/mDC/internal/path"
)

// Node describes one object of the in-memory tree fixture
type Node struct {
	Role     string
	Class    object.ClassID
	Props    map[string]string
	Children []*Node
}

// memNode is the runtime form of a fixture node with assigned handle
type memNode struct {
	handle   object.Handle
	role     string
	class    object.ClassID
	props    map[string]string
	children []*memNode
	parent   *memNode
}

// MemDevice is an in-process Device implementation
type MemDevice struct {
	mu sync.Mutex

	root   *memNode
	byID   map[object.Handle]*memNode
	nextID object.Handle

	connected       bool
	findByPath      bool
	descriptors     map[object.Handle]*object.Descriptor
	childrenListed  map[object.Handle]bool
	subscriptions   map[subscription]bool
	events          chan PropertyEvent
	stats           *Stats
	logger          *log.Logger
}

type subscription struct {
	handle   object.Handle
	property string
}

// NewMemDevice builds a device from a fixture tree. The fixture root must
// be a composite class; handles are assigned depth-first starting at the
// well-known root handle.
func NewMemDevice(root *Node) *MemDevice {
	d := &MemDevice{
		byID:           make(map[object.Handle]*memNode),
		nextID:         object.HandleRoot,
		findByPath:     true,
		descriptors:    make(map[object.Handle]*object.Descriptor),
		childrenListed: make(map[object.Handle]bool),
		subscriptions:  make(map[subscription]bool),
		events:         make(chan PropertyEvent, 16),
		stats:          NewStats(),
		logger:         log.GetDefault().WithField("component", "memdevice"),
	}

	d.root = d.build(root, nil)
	return d
}

// build assigns handles and parent links depth-first
func (d *MemDevice) build(n *Node, parent *memNode) *memNode {
	node := &memNode{
		handle: d.nextID,
		role:   n.Role,
		class:  n.Class,
		props:  n.Props,
		parent: parent,
	}
	if node.props == nil {
		node.props = make(map[string]string)
	}
	d.nextID++
	d.byID[node.handle] = node

	for _, child := range n.Children {
		node.children = append(node.children, d.build(child, node))
	}

	return node
}

// SetFindByPathSupported toggles the server-side path search capability
func (d *MemDevice) SetFindByPathSupported(supported bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.findByPath = supported
}

// DemoTree returns the fixture used by the "mem" transport
func DemoTree() *Node {
	return &Node{
		Role:  "Root",
		Class: object.ClassBlock,
		Children: []*Node{
			{
				Role:  "Block",
				Class: object.ClassBlock,
				Children: []*Node{
					{Role: "Gain", Class: object.ClassGain, Props: map[string]string{"gain": "0.0", "unit": "dB"}},
					{Role: "Mute", Class: object.ClassMute, Props: map[string]string{"state": "off"}},
					{
						Role:  "Output Level",
						Class: object.ClassLevel,
						Props: map[string]string{"level": "-18.5"},
					},
				},
			},
			{
				Role:  "Monitoring",
				Class: object.ClassBlock,
				Children: []*Node{
					{Role: "Level", Class: object.ClassLevel, Props: map[string]string{"level": "-32.0"}},
				},
			},
			{Role: "DeviceManager", Class: object.ClassManager, Props: map[string]string{"model": "mDC demo", "version": "0.1.0"}},
		},
	}
}

func errNotConnected(operation string) error {
	return mdcerror.New("not connected to a device").
		WithCode(mdcerror.CodeNotConnected).
		WithOperation(operation)
}

func errNotPresent(operation string, detailKey string, detail interface{}) error {
	return mdcerror.New("object not present").
		WithCode(mdcerror.CodeObjectNotPresent).
		WithOperation(operation).
		WithDetail(detailKey, detail)
}

// Connect establishes the in-memory connection
func (d *MemDevice) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return nil
	}

	d.connected = true
	d.stats.mu.Lock()
	d.stats.CorrelationID = uuid.NewString()
	d.stats.ConnectedAt = time.Now()
	d.stats.mu.Unlock()

	d.logger.Info("connected", log.Fields{"correlationID": d.stats.CorrelationID})
	return nil
}

// Disconnect drops the connection and all cached state
func (d *MemDevice) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.connected = false
	d.descriptors = make(map[object.Handle]*object.Descriptor)
	d.childrenListed = make(map[object.Handle]bool)
	d.subscriptions = make(map[subscription]bool)

	d.logger.Info("disconnected")
	return nil
}

// Connected reports the connection state
func (d *MemDevice) Connected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

// Root returns the root container descriptor
func (d *MemDevice) Root() *object.Descriptor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.descriptorFor(d.root)
}

// descriptorFor returns the cached descriptor for a node, creating it on
// first use. Callers must hold the mutex.
func (d *MemDevice) descriptorFor(n *memNode) *object.Descriptor {
	if desc, ok := d.descriptors[n.handle]; ok {
		return desc
	}

	desc := object.NewDescriptorWithRole(n.handle, n.class, n.role)
	d.descriptors[n.handle] = desc
	return desc
}

// Resolve performs cached-first handle resolution
func (d *MemDevice) Resolve(ctx context.Context, handle object.Handle) (*object.Descriptor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil, errNotConnected("conn.Resolve")
	}

	if desc, ok := d.descriptors[handle]; ok {
		return desc, nil
	}

	d.stats.Record("Resolve")
	node, ok := d.byID[handle]
	if !ok {
		d.stats.RecordError()
		return nil, errNotPresent("conn.Resolve", "handle", handle)
	}

	return d.descriptorFor(node), nil
}

// ResolveUnknownClass resolves a handle without prior class knowledge
func (d *MemDevice) ResolveUnknownClass(ctx context.Context, handle object.Handle) (*object.Descriptor, error) {
	// The in-memory tree always knows class identities, so this is the
	// same lookup; a network device would issue an identification call.
	return d.Resolve(ctx, handle)
}

// ListChildren enumerates children of a composite
func (d *MemDevice) ListChildren(ctx context.Context, container *object.Descriptor, useCache bool) ([]*object.Descriptor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil, errNotConnected("conn.ListChildren")
	}

	if !container.IsComposite() {
		return nil, mdcerror.New("object cannot hold children").
			WithCode(mdcerror.CodeObjectClassMismatch).
			WithOperation("conn.ListChildren").
			WithDetail("class", container.Class)
	}

	node, ok := d.byID[container.Handle]
	if !ok {
		return nil, errNotPresent("conn.ListChildren", "handle", container.Handle)
	}

	if useCache {
		if !d.childrenListed[node.handle] {
			return nil, mdcerror.New("children not cached").
				WithCode(mdcerror.CodeObjectNotPresent).
				WithOperation("conn.ListChildren").
				WithDetail("handle", container.Handle)
		}
	} else {
		d.stats.Record("ListChildren")
		d.childrenListed[node.handle] = true
	}

	children := make([]*object.Descriptor, 0, len(node.children))
	for _, child := range node.children {
		children = append(children, d.descriptorFor(child))
	}

	return children, nil
}

// FindByPath issues a server-side path search below base
func (d *MemDevice) FindByPath(ctx context.Context, base *object.Descriptor, p path.Path) ([]SearchResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil, errNotConnected("conn.FindByPath")
	}

	if !d.findByPath {
		return nil, mdcerror.New("path search not implemented by server").
			WithCode(mdcerror.CodeNotImplemented).
			WithOperation("conn.FindByPath")
	}

	d.stats.Record("FindByPath")

	node, ok := d.byID[base.Handle]
	if !ok {
		return nil, errNotPresent("conn.FindByPath", "handle", base.Handle)
	}

	var results []SearchResult
	d.matchPath(node, p.Components, d.containerPath(node), &results)
	return results, nil
}

// matchPath recursively matches path components; duplicate roles may
// produce multiple results
func (d *MemDevice) matchPath(node *memNode, components []string, containerPath path.Path, results *[]SearchResult) {
	if len(components) == 0 {
		return
	}

	for _, child := range node.children {
		if child.role != components[0] {
			continue
		}
		if len(components) == 1 {
			*results = append(*results, SearchResult{
				Handle:        child.handle,
				Class:         child.class,
				Role:          child.role,
				ContainerPath: containerPath,
			})
			continue
		}
		d.matchPath(child, components[1:], containerPath.Join(child.role), results)
	}
}

// FindByRole searches for roles containing substring, case-insensitive
func (d *MemDevice) FindByRole(ctx context.Context, base *object.Descriptor, substring string, recurse bool) ([]SearchResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil, errNotConnected("conn.FindByRole")
	}

	d.stats.Record("FindByRole")

	node, ok := d.byID[base.Handle]
	if !ok {
		return nil, errNotPresent("conn.FindByRole", "handle", base.Handle)
	}

	var results []SearchResult
	d.matchRole(node, substring, recurse, d.containerPath(node), &results)
	return results, nil
}

func (d *MemDevice) matchRole(node *memNode, substring string, recurse bool, containerPath path.Path, results *[]SearchResult) {
	for _, child := range node.children {
		if stringx.ContainsIgnoreCase(child.role, substring) {
			*results = append(*results, SearchResult{
				Handle:        child.handle,
				Class:         child.class,
				Role:          child.role,
				ContainerPath: containerPath,
			})
		}
		if recurse && len(child.children) > 0 {
			d.matchRole(child, substring, recurse, containerPath.Join(child.role), results)
		}
	}
}

// containerPath computes the absolute path of a node
func (d *MemDevice) containerPath(node *memNode) path.Path {
	var components []string
	for current := node; current != nil && current.parent != nil; current = current.parent {
		components = append([]string{current.role}, components...)
	}
	return path.Path{Components: components, Absolute: true}
}

// Owner returns the owning container handle; the root reports HandleNone
func (d *MemDevice) Owner(ctx context.Context, desc *object.Descriptor) (object.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return object.HandleNone, errNotConnected("conn.Owner")
	}

	d.stats.Record("Owner")

	node, ok := d.byID[desc.Handle]
	if !ok {
		return object.HandleNone, errNotPresent("conn.Owner", "handle", desc.Handle)
	}

	if node.parent == nil {
		return object.HandleNone, nil
	}
	return node.parent.handle, nil
}

// Role returns the role name of an object
func (d *MemDevice) Role(ctx context.Context, desc *object.Descriptor) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return "", errNotConnected("conn.Role")
	}

	node, ok := d.byID[desc.Handle]
	if !ok {
		return "", errNotPresent("conn.Role", "handle", desc.Handle)
	}
	return node.role, nil
}

// RolePath returns the absolute role path by ownership-chain walking
func (d *MemDevice) RolePath(ctx context.Context, desc *object.Descriptor) (path.Path, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return path.Path{}, errNotConnected("conn.RolePath")
	}

	d.stats.Record("RolePath")

	node, ok := d.byID[desc.Handle]
	if !ok {
		return path.Path{}, errNotPresent("conn.RolePath", "handle", desc.Handle)
	}
	return d.containerPath(node), nil
}

// GetProperty reads a property value
func (d *MemDevice) GetProperty(ctx context.Context, desc *object.Descriptor, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return "", errNotConnected("conn.GetProperty")
	}

	d.stats.Record("GetProperty")

	node, ok := d.byID[desc.Handle]
	if !ok {
		return "", errNotPresent("conn.GetProperty", "handle", desc.Handle)
	}

	value, ok := node.props[name]
	if !ok {
		d.stats.RecordError()
		return "", mdcerror.New("no such property").
			WithCode(mdcerror.CodeParameterError).
			WithOperation("conn.GetProperty").
			WithDetail("property", name)
	}
	return value, nil
}

// SetProperty writes a property value and notifies subscribers
func (d *MemDevice) SetProperty(ctx context.Context, desc *object.Descriptor, name, value string) error {
	d.mu.Lock()

	if !d.connected {
		d.mu.Unlock()
		return errNotConnected("conn.SetProperty")
	}

	d.stats.Record("SetProperty")

	node, ok := d.byID[desc.Handle]
	if !ok {
		d.mu.Unlock()
		return errNotPresent("conn.SetProperty", "handle", desc.Handle)
	}

	if _, ok := node.props[name]; !ok {
		d.stats.RecordError()
		d.mu.Unlock()
		return mdcerror.New("no such property").
			WithCode(mdcerror.CodeParameterError).
			WithOperation("conn.SetProperty").
			WithDetail("property", name)
	}

	node.props[name] = value
	subscribed := d.subscriptions[subscription{handle: desc.Handle, property: name}]
	d.mu.Unlock()

	if subscribed {
		select {
		case d.events <- PropertyEvent{Handle: desc.Handle, Property: name, Value: value}:
		default:
			// Slow consumers drop events rather than blocking the writer
		}
	}
	return nil
}

// Subscribe registers for property-change notifications
func (d *MemDevice) Subscribe(ctx context.Context, desc *object.Descriptor, property string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return errNotConnected("conn.Subscribe")
	}

	d.stats.Record("Subscribe")
	d.subscriptions[subscription{handle: desc.Handle, property: property}] = true
	return nil
}

// Unsubscribe removes a property-change registration
func (d *MemDevice) Unsubscribe(ctx context.Context, desc *object.Descriptor, property string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return errNotConnected("conn.Unsubscribe")
	}

	d.stats.Record("Unsubscribe")
	delete(d.subscriptions, subscription{handle: desc.Handle, property: property})
	return nil
}

// Events returns the property-change notification channel
func (d *MemDevice) Events() <-chan PropertyEvent {
	return d.events
}

// Stats returns the connection statistics
func (d *MemDevice) Stats() *Stats {
	return d.stats
}
