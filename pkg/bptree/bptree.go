// Package bptree implements an in-memory B+Tree used by the memory storage
// backend.
package bptree

import (
	"cmp"
	"sort"
	"sync"
)

// DefaultOrder is the fallback branching factor if a user-supplied order is too small.
const DefaultOrder = 4

// BPlusTree maps ordered keys to values. A single tree-wide RWMutex guards
// all nodes: readers share, writers are exclusive.
type BPlusTree[K cmp.Ordered, V any] struct {
	root   *node[K, V]
	order  int
	height int
	size   int
	m      sync.RWMutex
}

// node represents both internal and leaf nodes in the B+Tree.
type node[K cmp.Ordered, V any] struct {
	isLeaf   bool
	keys     []K
	children []*node[K, V] // used if !isLeaf
	values   []V           // used if isLeaf
	parent   *node[K, V]
	next     *node[K, V] // leaf-link pointer, for in-order walks
}

// NewBPlusTree creates and returns a B+Tree with the given order.
// If the specified order < 3, we fall back to DefaultOrder.
func NewBPlusTree[K cmp.Ordered, V any](order int) *BPlusTree[K, V] {
	if order < 3 {
		order = DefaultOrder
	}
	return &BPlusTree[K, V]{
		root: &node[K, V]{
			isLeaf: true,
			keys:   make([]K, 0, order+1),
			values: make([]V, 0, order+1),
		},
		order:  order,
		height: 1,
	}
}

// Height returns the number of levels in the tree.
func (tree *BPlusTree[K, V]) Height() int {
	tree.m.RLock()
	defer tree.m.RUnlock()
	return tree.height
}

// Len returns the number of keys stored.
func (tree *BPlusTree[K, V]) Len() int {
	tree.m.RLock()
	defer tree.m.RUnlock()
	return tree.size
}

// childIndex picks the child to descend into for key. Separator keys are the
// first key of the right subtree, so equal keys go right.
func childIndex[K cmp.Ordered](keys []K, key K) int {
	return sort.Search(len(keys), func(i int) bool { return cmp.Less(key, keys[i]) })
}

// leafIndex returns the position of key in a leaf and whether it is present.
func leafIndex[K cmp.Ordered](keys []K, key K) (int, bool) {
	i := sort.Search(len(keys), func(i int) bool { return cmp.Compare(keys[i], key) >= 0 })
	return i, i < len(keys) && keys[i] == key
}

func (tree *BPlusTree[K, V]) findLeaf(key K) *node[K, V] {
	current := tree.root
	for !current.isLeaf {
		current = current.children[childIndex(current.keys, key)]
	}
	return current
}

// Search locates the value associated with key.
func (tree *BPlusTree[K, V]) Search(key K) (V, bool) {
	tree.m.RLock()
	defer tree.m.RUnlock()

	leaf := tree.findLeaf(key)
	if i, ok := leafIndex(leaf.keys, key); ok {
		return leaf.values[i], true
	}
	var zero V
	return zero, false
}

// Insert adds or replaces the value stored under key.
func (tree *BPlusTree[K, V]) Insert(key K, value V) {
	tree.m.Lock()
	defer tree.m.Unlock()

	leaf := tree.findLeaf(key)
	i, ok := leafIndex(leaf.keys, key)
	if ok {
		leaf.values[i] = value
		return
	}

	leaf.keys = append(leaf.keys, key)
	copy(leaf.keys[i+1:], leaf.keys[i:])
	leaf.keys[i] = key

	leaf.values = append(leaf.values, value)
	copy(leaf.values[i+1:], leaf.values[i:])
	leaf.values[i] = value
	tree.size++

	if len(leaf.keys) > tree.order {
		tree.splitLeaf(leaf)
	}
}

// Delete removes key and returns the value it held. Leaves are allowed to
// underflow; separators in internal nodes stay valid for routing.
func (tree *BPlusTree[K, V]) Delete(key K) (V, bool) {
	tree.m.Lock()
	defer tree.m.Unlock()

	var zero V
	leaf := tree.findLeaf(key)
	i, ok := leafIndex(leaf.keys, key)
	if !ok {
		return zero, false
	}
	value := leaf.values[i]

	leaf.keys = append(leaf.keys[:i], leaf.keys[i+1:]...)
	copy(leaf.values[i:], leaf.values[i+1:])
	leaf.values[len(leaf.values)-1] = zero
	leaf.values = leaf.values[:len(leaf.values)-1]
	tree.size--

	return value, true
}

// Ascend calls fn for every key in order until fn returns false.
func (tree *BPlusTree[K, V]) Ascend(fn func(key K, value V) bool) {
	tree.m.RLock()
	defer tree.m.RUnlock()

	leaf := tree.root
	for !leaf.isLeaf {
		leaf = leaf.children[0]
	}
	for ; leaf != nil; leaf = leaf.next {
		for i, k := range leaf.keys {
			if !fn(k, leaf.values[i]) {
				return
			}
		}
	}
}

// splitLeaf handles splitting a leaf node that has overflowed.
func (tree *BPlusTree[K, V]) splitLeaf(leaf *node[K, V]) {
	mid := len(leaf.keys) / 2

	newLeaf := &node[K, V]{
		isLeaf: true,
		keys:   append([]K{}, leaf.keys[mid:]...),
		values: append([]V{}, leaf.values[mid:]...),
		next:   leaf.next,
		parent: leaf.parent,
	}

	leaf.keys = leaf.keys[:mid]
	leaf.values = leaf.values[:mid]
	leaf.next = newLeaf

	tree.insertInParent(leaf, newLeaf.keys[0], newLeaf)
}

// insertInParent links right next to left under separator key, growing a new
// root when left was the root.
func (tree *BPlusTree[K, V]) insertInParent(left *node[K, V], key K, right *node[K, V]) {
	parent := left.parent
	if parent == nil {
		root := &node[K, V]{
			keys:     []K{key},
			children: []*node[K, V]{left, right},
		}
		left.parent = root
		right.parent = root
		tree.root = root
		tree.height++
		return
	}

	idx := childIndex(parent.keys, key)

	parent.keys = append(parent.keys, key)
	copy(parent.keys[idx+1:], parent.keys[idx:])
	parent.keys[idx] = key

	parent.children = append(parent.children, right)
	copy(parent.children[idx+2:], parent.children[idx+1:])
	parent.children[idx+1] = right
	right.parent = parent

	if len(parent.keys) > tree.order {
		tree.splitInternal(parent)
	}
}

// splitInternal handles splitting an internal node that has overflowed.
func (tree *BPlusTree[K, V]) splitInternal(internal *node[K, V]) {
	mid := len(internal.keys) / 2
	splitKey := internal.keys[mid]

	sibling := &node[K, V]{
		keys:     append([]K{}, internal.keys[mid+1:]...),
		children: append([]*node[K, V]{}, internal.children[mid+1:]...),
		parent:   internal.parent,
	}
	for _, child := range sibling.children {
		child.parent = sibling
	}

	internal.keys = internal.keys[:mid]
	internal.children = internal.children[:mid+1]

	tree.insertInParent(internal, splitKey, sibling)
}
