package schema

import (
	"fmt"
	"slices"
)

// cycleError reports the nodes a topological sort could not order.
type cycleError struct {
	nodes []int
}

func (e *cycleError) Error() string {
	return fmt.Sprintf("cycle detected among %d nodes", len(e.nodes))
}

// topoSort orders the nodes [0, n) so that every node follows the nodes
// deps(i) returns for it. Among the nodes ready at any point the smallest
// index goes first, so the order is stable for a given input. Nodes that
// cannot be ordered are reported as a *cycleError.
func topoSort(n int, deps func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	pending := make([]int, n)
	dependents := make([][]int, n)

	for i := range n {
		for _, d := range deps(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("node %d depends on unknown node %d", i, d)
			}

			pending[i]++
			dependents[d] = append(dependents[d], i)
		}
	}

	var ready []int

	for i, p := range pending {
		if p == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, j := range dependents[next] {
			if pending[j]--; pending[j] == 0 {
				k, _ := slices.BinarySearch(ready, j)
				ready = slices.Insert(ready, k, j)
			}
		}
	}

	if len(order) < n {
		return nil, &cycleError{nodes: cycleNodes(pending, dependents)}
	}

	return order, nil
}

// cycleNodes narrows the nodes left over by topoSort to those on a cycle,
// dropping nodes that merely depend on one.
func cycleNodes(pending []int, dependents [][]int) []int {
	left := make(map[int]bool)

	for i, d := range pending {
		if d > 0 {
			left[i] = true
		}
	}

	for changed := true; changed; {
		changed = false

		for i := range left {
			feeds := false

			for _, j := range dependents[i] {
				if left[j] {
					feeds = true
					break
				}
			}

			if !feeds {
				delete(left, i)

				changed = true
			}
		}
	}

	nodes := make([]int, 0, len(left))
	for i := range left {
		nodes = append(nodes, i)
	}

	slices.Sort(nodes)

	return nodes
}
