package tree

import "strings"

// Build constructs a fully loaded tree holding only the given relative file
// paths. Used for filtered views such as the tag filter.
func Build(rootName string, files []string) *Node {
	root := &Node{
		Name:   rootName,
		IsDir:  true,
		Open:   true,
		loaded: true,
	}
	for _, rel := range files {
		rel = strings.Trim(rel, "/")
		if rel == "" {
			continue
		}
		insert(root, rel)
	}
	root.SortRecursive()
	return root
}

func insert(root *Node, rel string) {
	parts := strings.Split(rel, "/")
	current := root
	for i, part := range parts {
		last := i == len(parts)-1
		child := current.ChildByName(part)
		if child == nil {
			child = &Node{
				Name:   part,
				Path:   joinPath(current.Path, part),
				IsDir:  !last,
				Open:   !last,
				loaded: true,
			}
			current.AddChild(child)
		}
		current = child
	}
}
