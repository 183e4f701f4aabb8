package schema

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// PathTo returns the child indices leading from the root to n. The root's path is empty.
func PathTo(n *Node) []int {
	path := []int{}
	for a := n; a.parent != nil; a = a.parent {
		path = append(path, a.Index())
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// NodeAt follows path from root. Paths are only meaningful against the tree
// shape they were taken from; a path that runs off the tree is ErrInvalidPath.
func NodeAt(root *Node, path []int) (*Node, error) {
	n := root
	for depth, i := range path {
		if i < 0 || i >= len(n.children) {
			return nil, fmt.Errorf("%w: index %d at depth %d out of range (have %d)", ErrInvalidPath, i, depth, len(n.children))
		}
		n = n.children[i]
	}
	return n, nil
}

// EncodePath renders a path as a JSON array, the form used in share links.
func EncodePath(path []int) string {
	if path == nil {
		path = []int{}
	}
	data, err := json.Marshal(path)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodePath parses a JSON array of child indices.
func DecodePath(s string) ([]int, error) {
	var path []int
	if err := json.Unmarshal([]byte(s), &path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if path == nil {
		path = []int{}
	}
	return path, nil
}
