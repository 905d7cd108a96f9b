package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestLogFields(t *testing.T) {
	if got := LogFields(context.Background()); len(got) != 0 {
		t.Fatalf("empty ctx fields=%v", got)
	}

	uid := uuid.New()
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t-1", RequestID: "r-1"})
	ctx = WithRequestData(ctx, &RequestData{UserID: uid, IsDemo: true})

	got := LogFields(ctx)
	want := []any{"trace_id", "t-1", "request_id", "r-1", "user_id", uid.String(), "demo", true}
	if len(got) != len(want) {
		t.Fatalf("fields=%v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("field %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGetTraceDataNilContext(t *testing.T) {
	if GetTraceData(nil) != nil {
		t.Fatalf("nil ctx should have no trace data")
	}
}
