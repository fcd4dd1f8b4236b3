// File: class.go
// Title: Object Class Tree
// Description: Defines class identities, the capability bitmask, and the
//              class tree used for subclass-compatible matching. Commands
//              restrict their applicability by class; the resolver requires
//              composites for traversal.
// Author: msto63
// Version: v0.1.0
// Created: 2025-11-04
// Modified: 2025-11-04
//
// Change History:
// - 2025-11-04 v0.1.0: Initial class tree

package object

import "sort"

// ClassID identifies an object class
type ClassID string

// Capability is a bitmask of object capabilities
type Capability uint8

const (
	// CapComposite marks objects capable of holding named children
	CapComposite Capability = 1 << iota

	// CapOwnable marks objects that belong to an owning container
	CapOwnable

	// CapProperty marks objects exposing readable/writable properties
	CapProperty

	// CapMethod marks objects exposing callable methods
	CapMethod
)

// Built-in class identities mirroring a control-protocol device tree
const (
	ClassRoot     ClassID = "Root"
	ClassBlock    ClassID = "Block"
	ClassWorker   ClassID = "Worker"
	ClassActuator ClassID = "Actuator"
	ClassSensor   ClassID = "Sensor"
	ClassGain     ClassID = "Gain"
	ClassMute     ClassID = "Mute"
	ClassLevel    ClassID = "LevelSensor"
	ClassAgent    ClassID = "Agent"
	ClassManager  ClassID = "Manager"
)

// classInfo is one node of the class tree
type classInfo struct {
	parent       ClassID
	capabilities Capability
}

var classTree = map[ClassID]classInfo{}

// RegisterClass adds a class to the tree. The root of a hierarchy uses an
// empty parent. Registration is idempotent for identical definitions; the
// built-in tree is registered during package init.
func RegisterClass(id, parent ClassID, capabilities Capability) {
	classTree[id] = classInfo{parent: parent, capabilities: capabilities}
}

// IsA reports whether class id equals ancestor or derives from it
func IsA(id, ancestor ClassID) bool {
	for current := id; current != ""; {
		if current == ancestor {
			return true
		}

		info, ok := classTree[current]
		if !ok {
			return false
		}
		current = info.parent
	}
	return false
}

// HasCapability reports whether the class or any ancestor carries cap
func HasCapability(id ClassID, cap Capability) bool {
	for current := id; current != ""; {
		info, ok := classTree[current]
		if !ok {
			return false
		}
		if info.capabilities&cap != 0 {
			return true
		}
		current = info.parent
	}
	return false
}

// KnownClasses returns all registered class identities, sorted
func KnownClasses() []ClassID {
	classes := make([]ClassID, 0, len(classTree))
	for id := range classTree {
		classes = append(classes, id)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}

func init() {
	RegisterClass(ClassRoot, "", 0)
	RegisterClass(ClassBlock, ClassRoot, CapComposite|CapOwnable)
	RegisterClass(ClassWorker, ClassRoot, CapOwnable|CapProperty)
	RegisterClass(ClassActuator, ClassWorker, CapMethod)
	RegisterClass(ClassSensor, ClassWorker, 0)
	RegisterClass(ClassGain, ClassActuator, 0)
	RegisterClass(ClassMute, ClassActuator, 0)
	RegisterClass(ClassLevel, ClassSensor, 0)
	RegisterClass(ClassAgent, ClassRoot, CapOwnable|CapProperty)
	RegisterClass(ClassManager, ClassRoot, CapProperty)
}
