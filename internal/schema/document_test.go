package schema

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestDecodeJSONKeepsOrder(t *testing.T) {
	obj, err := DecodeJSON([]byte(`{"b": 1, "a": {"y": true, "x": null}, "c": [1, "two"]}`))
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, obj.Keys()); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}
	nested, ok := obj.Object("a")
	if !ok {
		t.Fatal("a should be an object")
	}
	if diff := cmp.Diff([]string{"y", "x"}, nested.Keys()); diff != "" {
		t.Errorf("nested key order mismatch (-want +got):\n%s", diff)
	}
	if v, _ := obj.Get("b"); v != json.Number("1") {
		t.Errorf("expected json.Number 1, got %#v", v)
	}
}

func TestDecodeJSONDuplicateKeys(t *testing.T) {
	obj, err := DecodeJSON([]byte(`{"a": 1, "b": 2, "a": 3}`))
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, obj.Keys()); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}
	if v, _ := obj.Get("a"); v != json.Number("3") {
		t.Errorf("last value should win, got %v", v)
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	for _, bad := range []string{`[1, 2]`, `{"a": 1`, `{"a": 1} {}`, ``, `"str"`} {
		if _, err := DecodeJSON([]byte(bad)); err == nil {
			t.Errorf("DecodeJSON(%q) should fail", bad)
		}
	}
}

func TestDecodeYAML(t *testing.T) {
	obj, err := Decode("schema.yml", []byte("z: 1\na:\n  - x\n  - 2.5\nn: ~\nb: false\n"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff([]string{"z", "a", "n", "b"}, obj.Keys()); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}
	arr, _ := obj.Array("a")
	if diff := cmp.Diff([]any{"x", json.Number("2.5")}, arr); diff != "" {
		t.Errorf("array mismatch (-want +got):\n%s", diff)
	}
	if v, ok := obj.Get("n"); !ok || v != nil {
		t.Errorf("expected null, got %v", v)
	}
}

func TestDecodeYAMLNumbers(t *testing.T) {
	obj, err := Decode("schema.yaml", []byte("max: 18446744073709551615\nhex: 0x1F\nneg: -3\ninf: .inf\nnan: .nan\n"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := map[string]any{
		"max": json.Number("18446744073709551615"),
		"hex": json.Number("31"),
		"neg": json.Number("-3"),
		"inf": "+Inf",
		"nan": "NaN",
	}
	for key, w := range want {
		v, _ := obj.Get(key)
		if diff := cmp.Diff(w, v); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", key, diff)
		}
	}
	if _, err := obj.Pretty(); err != nil {
		t.Errorf("Pretty failed: %v", err)
	}
}

func TestObjectMerge(t *testing.T) {
	target := NewObject()
	target.Set("type", "object")
	target.Set("title", "Target")
	siblings := NewObject()
	siblings.Set("$ref", "#/x")
	siblings.Set("title", "Local")

	merged := target.Merge(siblings)
	if diff := cmp.Diff([]string{"type", "title", "$ref"}, merged.Keys()); diff != "" {
		t.Errorf("key mismatch (-want +got):\n%s", diff)
	}
	if title, _ := merged.String("title"); title != "Local" {
		t.Errorf("siblings should override, got %q", title)
	}
	if title, _ := target.String("title"); title != "Target" {
		t.Error("merge must not modify the target")
	}
}

func TestObjectMarshalJSONKeepsOrder(t *testing.T) {
	src := `{"z":1,"a":[{"k":"v","b":false}],"m":null}`
	obj, err := DecodeJSON([]byte(src))
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != src {
		t.Errorf("expected %s, got %s", src, data)
	}

	pretty, err := obj.Pretty()
	if err != nil {
		t.Fatalf("Pretty failed: %v", err)
	}
	if !strings.HasPrefix(string(pretty), "{\n  \"z\": 1,") {
		t.Errorf("unexpected pretty output:\n%s", pretty)
	}
}
