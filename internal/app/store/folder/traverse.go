package folder

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subtree traversal primitives. Both walks are iterative with a visited
// set: the no-cycle invariant should make the set unnecessary, but it keeps
// traversal terminating even over already-corrupt data.

// isDescendant reports whether target is reachable from ancestor by
// following children links (ancestor itself does not count).
func (m *Manager) isDescendant(ctx context.Context, ancestor, target primitive.ObjectID) (bool, error) {
	visited := map[primitive.ObjectID]struct{}{ancestor: {}}
	queue := []primitive.ObjectID{ancestor}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		children, err := m.childrenOf(ctx, id)
		if err != nil {
			return false, err
		}
		for _, c := range children {
			if c == target {
				return true, nil
			}
			if _, seen := visited[c]; seen {
				continue
			}
			visited[c] = struct{}{}
			queue = append(queue, c)
		}
	}
	return false, nil
}

// collectSubtree returns root plus every folder reachable from it via
// children links.
func (m *Manager) collectSubtree(ctx context.Context, root primitive.ObjectID) ([]primitive.ObjectID, error) {
	visited := map[primitive.ObjectID]struct{}{root: {}}
	collected := []primitive.ObjectID{root}
	queue := []primitive.ObjectID{root}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		children, err := m.childrenOf(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			if _, seen := visited[c]; seen {
				continue
			}
			visited[c] = struct{}{}
			collected = append(collected, c)
			queue = append(queue, c)
		}
	}
	return collected, nil
}
