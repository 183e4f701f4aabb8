package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLabel(t *testing.T) {
	withChild := NewProperty(10, Property{Name: "items", Type: TypeArray, TypeDetails: "Thing"})
	if err := withChild.AddChild(NewClass(11, Class{Name: "Thing"})); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"root", NewRoot(0), "schema{ }"},
		{"object", NewProperty(1, Property{Name: "conn", Type: TypeObject}), "conn{ }"},
		{"required string", NewProperty(2, Property{Name: "id", Type: TypeString, Required: true}), "id(string)*"},
		{"scalar array", NewProperty(3, Property{Name: "tags", Type: TypeArray, TypeDetails: "string"}), "tags[string]"},
		{"array without details", NewProperty(4, Property{Name: "list", Type: TypeArray}), "list[ ]"},
		{"array with children", withChild, "items[ ]"},
		{"union", NewProperty(5, Property{Name: "source", Type: TypeOneOf, TypeDetails: "DataObject"}), "source[oneOf]"},
		{"map", NewProperty(6, Property{Name: "objs", Type: TypeMapOf, Required: true}), "objs[mapOf]*"},
		{"enum", NewProperty(7, Property{Name: "mode", Type: TypeEnum, TypeDetails: "a, b"}), "mode(enum)"},
		{"class", NewClass(8, Class{Name: "CsvFileDataObject"}), "CsvFileDataObject{ }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Label(tt.node)); diff != "" {
				t.Errorf("Label mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want Details
	}{
		{
			"root",
			NewRoot(0),
			Details{ID: 0, Kind: "root", Name: "Schema", Type: "object"},
		},
		{
			"property",
			NewProperty(1, Property{Name: "items", Type: TypeArray, TypeDetails: "Item", Description: "**bold**", Deprecated: true}),
			Details{ID: 1, Kind: "property", Name: "items", Type: "array: Item", Description: "**bold**", Deprecated: true},
		},
		{
			"class with base",
			NewClass(2, Class{Name: "Csv", BaseClass: "DataObject"}),
			Details{ID: 2, Kind: "class", Name: "Csv", Type: "object: Csv extends DataObject"},
		},
		{
			"class without base",
			NewClass(3, Class{Name: "Loose"}),
			Details{ID: 3, Kind: "class", Name: "Loose", Type: "object: Loose"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Describe(tt.node)); diff != "" {
				t.Errorf("Describe mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTypeText(t *testing.T) {
	tests := []struct {
		node *Node
		want string
	}{
		{NewRoot(0), "object"},
		{NewProperty(1, Property{Name: "id", Type: TypeString}), "string"},
		{NewProperty(2, Property{Name: "mode", Type: TypeEnum, TypeDetails: "a, b"}), "enum: a, b"},
		{NewClass(3, Class{Name: "Csv", BaseClass: "DataObject"}), "object: Csv extends DataObject"},
	}
	for _, tt := range tests {
		if got := TypeText(tt.node); got != tt.want {
			t.Errorf("TypeText(%v) = %q, want %q", tt.node, got, tt.want)
		}
	}
}
