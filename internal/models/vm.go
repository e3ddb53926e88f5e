package models

import "time"

// SnapshotNode is one snapshot in a VM's snapshot tree as reported by the
// inventory. Children are ordered as the inventory lists them.
type SnapshotNode struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	Ref         string         `json:"ref,omitempty"`
	Children    []SnapshotNode `json:"children,omitempty"`
}

// VMSnapshots pairs a VM with its snapshot forest. A VM may have several
// independent root snapshots.
type VMSnapshots struct {
	Name   string         `json:"name"`
	Forest []SnapshotNode `json:"forest"`
}

// HasSnapshots reports whether the VM has at least one root snapshot.
func (v VMSnapshots) HasSnapshots() bool {
	return len(v.Forest) > 0
}

// CountNodes returns the number of snapshots in the forest.
func CountNodes(forest []SnapshotNode) int {
	n := 0
	stack := forest
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, node.Children...)
	}
	return n
}
