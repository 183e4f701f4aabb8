package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPathRoundTrip(t *testing.T) {
	root := mustParse(t, unionDocOneOf())

	root.Walk(func(n *Node) {
		path := PathTo(n)
		got, err := NodeAt(root, path)
		if err != nil {
			t.Fatalf("NodeAt(%v) failed: %v", path, err)
		}
		if got != n {
			t.Errorf("path %v resolved to %v, want %v", path, got, n)
		}
	})
}

func TestPathToRootIsEmpty(t *testing.T) {
	root := NewRoot(0)
	if diff := cmp.Diff([]int{}, PathTo(root)); diff != "" {
		t.Errorf("root path mismatch (-want +got):\n%s", diff)
	}
	if EncodePath(PathTo(root)) != "[]" {
		t.Errorf("expected [], got %s", EncodePath(PathTo(root)))
	}
}

func TestPathToNested(t *testing.T) {
	root := mustParse(t, unionDocOneOf())
	second := root.Children()[0].Children()[1]

	if diff := cmp.Diff([]int{0, 1}, PathTo(second)); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if got := EncodePath(PathTo(second)); got != "[0,1]" {
		t.Errorf("expected [0,1], got %s", got)
	}
}

func TestNodeAtInvalid(t *testing.T) {
	root := mustParse(t, unionDocOneOf())
	for _, path := range [][]int{{1}, {0, 2}, {0, 0, 0}, {-1}} {
		if _, err := NodeAt(root, path); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("NodeAt(%v): expected ErrInvalidPath, got %v", path, err)
		}
	}
}

func TestDecodePath(t *testing.T) {
	got, err := DecodePath("[0, 3, 1]")
	if err != nil {
		t.Fatalf("DecodePath failed: %v", err)
	}
	if diff := cmp.Diff([]int{0, 3, 1}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"", "[a]", "{}"} {
		if _, err := DecodePath(bad); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("DecodePath(%q): expected ErrInvalidPath, got %v", bad, err)
		}
	}
}

func unionDocOneOf() string {
	return `{
		"properties": {
			"property": {"oneOf": [{"$ref": "#/definitions/B/One"}, {"$ref": "#/definitions/B/Two"}]}
		},
		"definitions": {"B": {
			"One": {"type": "object", "title": "One"},
			"Two": {"type": "object", "title": "Two", "properties": {"x": {"type": "string"}}}
		}}
	}`
}
