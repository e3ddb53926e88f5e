package snapshot

import (
	"time"

	"github.com/EpicMandM/snapshot-report/internal/models"
)

type frame struct {
	node  *models.SnapshotNode
	depth int
}

// Walk flattens a VM's snapshot forest into descriptors in depth-first
// pre-order, keeping sibling order. Every descriptor carries vmName and is
// classified against now and threshold.
//
// The traversal uses an explicit stack, so tree depth only costs heap.
// A node without a creation time, or a snapshot reference that appears twice,
// aborts the walk with a *MalformedInputError.
func Walk(vmName string, forest []models.SnapshotNode, now time.Time, threshold time.Duration) ([]models.SnapshotDescriptor, error) {
	if len(forest) == 0 {
		return nil, nil
	}

	var out []models.SnapshotDescriptor
	seen := make(map[string]struct{})
	stack := pushReversed(nil, forest, 0)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := top.node

		if node.CreatedAt.IsZero() {
			return nil, &MalformedInputError{VM: vmName, Snapshot: node.Name, Reason: "missing creation time"}
		}
		if node.Ref != "" {
			if _, dup := seen[node.Ref]; dup {
				return nil, &MalformedInputError{VM: vmName, Snapshot: node.Name, Reason: "snapshot reference " + node.Ref + " visited twice"}
			}
			seen[node.Ref] = struct{}{}
		}

		elapsed, stale := Classify(node.CreatedAt, now, threshold)
		out = append(out, models.SnapshotDescriptor{
			VMName:       vmName,
			SnapshotName: node.Name,
			Description:  node.Description,
			CreatedAt:    node.CreatedAt,
			Elapsed:      elapsed,
			Stale:        stale,
			Depth:        top.depth,
		})

		stack = pushReversed(stack, node.Children, top.depth+1)
	}

	return out, nil
}

// pushReversed pushes nodes so that nodes[0] ends up on top of the stack.
func pushReversed(stack []frame, nodes []models.SnapshotNode, depth int) []frame {
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: &nodes[i], depth: depth})
	}
	return stack
}
