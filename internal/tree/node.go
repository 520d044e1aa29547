package tree

import (
	"sort"
	"strings"
)

// Loader retrieves child entries for a particular node path.
type Loader interface {
	List(path string) ([]*Node, error)
}

// Node represents a single entry in the picker tree. Paths are relative to
// the tree root and use forward slashes.
type Node struct {
	Name     string
	Path     string
	IsDir    bool
	Open     bool
	Parent   *Node
	Children []*Node

	loader Loader
	loaded bool
}

// NewRoot creates an open root directory backed by loader.
func NewRoot(name string, loader Loader) *Node {
	return &Node{
		Name:   name,
		IsDir:  true,
		Open:   true,
		loader: loader,
	}
}

// ChildByName returns the direct child called name, or nil.
func (n *Node) ChildByName(name string) *Node {
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// AddChild appends child and marks the node as loaded.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
	n.loaded = true
}

// EnsureLoaded lists children of a directory on first use.
func (n *Node) EnsureLoaded() error {
	if !n.IsDir || n.loaded || n.loader == nil {
		return nil
	}
	children, err := n.loader.List(n.Path)
	if err != nil {
		return err
	}
	n.Children = children
	for _, child := range children {
		child.Parent = n
		child.loader = n.loader
	}
	sortNodes(n.Children)
	n.loaded = true
	return nil
}

// Find walks down from n along a slash separated relative path, loading
// directories on the way. It returns nil when an element is missing.
func (n *Node) Find(path string) (*Node, error) {
	current := n
	if path == "" {
		return current, nil
	}
	for _, part := range strings.Split(path, "/") {
		if err := current.EnsureLoaded(); err != nil {
			return nil, err
		}
		next := current.ChildByName(part)
		if next == nil {
			return nil, nil
		}
		current = next
	}
	return current, nil
}

// SortRecursive orders directories first, then names case-insensitively.
func (n *Node) SortRecursive() {
	sortNodes(n.Children)
	for _, child := range n.Children {
		child.SortRecursive()
	}
}

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		ci, cj := nodes[i], nodes[j]
		if ci.IsDir != cj.IsDir {
			return ci.IsDir
		}
		return strings.ToLower(ci.Name) < strings.ToLower(cj.Name)
	})
}

func joinPath(base, part string) string {
	if base == "" {
		return part
	}
	return base + "/" + part
}
