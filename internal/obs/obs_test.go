package obs

import (
	"context"
	"errors"
	"testing"
)

func TestStartAndEnd(t *testing.T) {
	ctx, rec := Start(context.Background(), "schema.load", SchemaName.String("a"))
	_, child := Start(ctx, "schema.parse")
	child.End(nil)
	rec.Add(SchemaNodes.Int(3))
	if d := rec.End(errors.New("boom")); d < 0 {
		t.Errorf("negative elapsed time %v", d)
	}
}

func TestNilRecorder(t *testing.T) {
	var rec *Recorder
	rec.Add(SchemaNodes.Int(1))
	if d := rec.End(nil); d != 0 {
		t.Errorf("nil recorder should report 0, got %v", d)
	}
}
