/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package hierarchy provides a closed, single-rooted type tree that answers
// ancestor-or-equal queries in constant time.
package hierarchy

import (
	"errors"
	"fmt"
	"sync"

	"dirpx.dev/mmx/apis"
)

var (
	// ErrEmptyName is returned when a type is declared without a name.
	ErrEmptyName = errors.New("mmx(hierarchy): empty type name")
	// ErrDuplicateType is returned when a type name is declared twice.
	ErrDuplicateType = errors.New("mmx(hierarchy): duplicate type")
	// ErrUnknownType is returned when a parent or type name is not declared.
	ErrUnknownType = errors.New("mmx(hierarchy): unknown type")
)

// RootID is the tag of the root type of every Tree.
const RootID apis.TypeID = 0

// Tree is a single-rooted type hierarchy with explicit parent links.
//
// Each node stores its path from the root, so IsAncestorOrEqual is a
// depth comparison plus one slice index. Tree is safe for concurrent use;
// declarations normally happen during setup only.
type Tree struct {
	// mu guards nodes and byName.
	mu sync.RWMutex
	// nodes is indexed by TypeID.
	nodes []node
	// byName maps declared names to tags.
	byName map[string]apis.TypeID
}

type node struct {
	name   string
	parent apis.TypeID
	// path holds the ancestors from the root down to and including the node.
	path []apis.TypeID
	// children counts direct subtypes.
	children int
}

// Ensure Tree implements apis.Hierarchy.
var _ apis.Hierarchy = (*Tree)(nil)

// New creates a Tree whose root type is called root.
func New(root string) *Tree {
	if root == "" {
		root = "any"
	}
	return &Tree{
		nodes:  []node{{name: root, parent: RootID, path: []apis.TypeID{RootID}}},
		byName: map[string]apis.TypeID{root: RootID},
	}
}

// Add declares name as a direct child of parent and returns its tag.
func (t *Tree) Add(name, parent string) (apis.TypeID, error) {
	if name == "" {
		return 0, ErrEmptyName
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.byName[name]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateType, name)
	}
	pid, ok := t.byName[parent]
	if !ok {
		return 0, fmt.Errorf("%w: parent %q of %q", ErrUnknownType, parent, name)
	}
	id := apis.TypeID(len(t.nodes))
	pp := t.nodes[pid].path
	path := make([]apis.TypeID, len(pp)+1)
	copy(path, pp)
	path[len(pp)] = id
	t.nodes[pid].children++
	t.nodes = append(t.nodes, node{name: name, parent: pid, path: path})
	t.byName[name] = id
	return id, nil
}

// MustAdd is like Add but panics on error. It is intended for static setup.
func (t *Tree) MustAdd(name, parent string) apis.TypeID {
	id, err := t.Add(name, parent)
	if err != nil {
		panic(err)
	}
	return id
}

// Root returns the root tag.
func (*Tree) Root() apis.TypeID {
	return RootID
}

// IsAncestorOrEqual reports whether ancestor is candidate or one of its ancestors.
// Unknown tags are never related to anything, including themselves.
func (t *Tree) IsAncestorOrEqual(candidate, ancestor apis.TypeID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(candidate) >= len(t.nodes) || int(ancestor) >= len(t.nodes) {
		return false
	}
	path := t.nodes[candidate].path
	depth := len(t.nodes[ancestor].path) - 1
	return depth < len(path) && path[depth] == ancestor
}

// Parent returns the direct parent of id. The root is its own parent.
func (t *Tree) Parent(id apis.TypeID) (apis.TypeID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.nodes) {
		return 0, false
	}
	return t.nodes[id].parent, true
}

// HasSubtypes reports whether any type was declared under id.
func (t *Tree) HasSubtypes(id apis.TypeID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return int(id) < len(t.nodes) && t.nodes[id].children > 0
}

// Depth returns the number of edges between id and the root.
func (t *Tree) Depth(id apis.TypeID) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.nodes) {
		return -1
	}
	return len(t.nodes[id].path) - 1
}

// Name returns the declared name of id, or "" if id is unknown.
func (t *Tree) Name(id apis.TypeID) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.nodes) {
		return ""
	}
	return t.nodes[id].name
}

// Lookup returns the tag declared under name.
func (t *Tree) Lookup(name string) (apis.TypeID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byName[name]
	return id, ok
}

// ID is like Lookup but returns ErrUnknownType when name is missing.
func (t *Tree) ID(name string) (apis.TypeID, error) {
	id, ok := t.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return id, nil
}

// Len returns the number of declared types, root included.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}
