package ranking

import "hash/fnv"

// Order-statistic treap keyed by (value DESC, id ASC). In-order traversal
// yields the ranking from best to worst and subtree sizes give a node's rank
// in O(log n). Priorities are hashed from the id so the shape is
// reproducible for a given pool.

type node struct {
	id    string
	value float64
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (av, aID) ranks ahead of (bv, bID).
func less(av float64, aID string, bv float64, bID string) bool {
	if av != bv {
		return av > bv
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func priority(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

func insert(n *node, id string, value float64) *node {
	if n == nil {
		return &node{id: id, value: value, prio: priority(id), size: 1}
	}
	if less(value, id, n.value, n.id) {
		n.left = insert(n.left, id, value)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, value)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

// position returns how many nodes rank ahead of (value, id).
func position(n *node, id string, value float64) int {
	ahead := 0
	for n != nil {
		if less(value, id, n.value, n.id) {
			n = n.left
			continue
		}
		if n.id == id {
			return ahead + nsize(n.left)
		}
		ahead += nsize(n.left) + 1
		n = n.right
	}
	return ahead
}

func walk(n *node, visit func(*node)) {
	if n == nil {
		return
	}
	walk(n.left, visit)
	visit(n)
	walk(n.right, visit)
}
