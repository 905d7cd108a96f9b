package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type traceDataKey struct{}

// TraceData correlates one HTTP request across logs, spans and SSE events.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceDataKey{}).(*TraceData)
	return td
}

// LogFields returns the correlation key/value pairs present on ctx, ready to
// append to a logger call.
func LogFields(ctx context.Context) []any {
	var out []any
	if td := GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			out = append(out, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			out = append(out, "request_id", td.RequestID)
		}
	}
	if rd := GetRequestData(ctx); rd != nil {
		if rd.UserID != uuid.Nil {
			out = append(out, "user_id", rd.UserID.String())
		}
		if rd.SessionID != uuid.Nil {
			out = append(out, "session_id", rd.SessionID.String())
		}
		if rd.IsDemo {
			out = append(out, "demo", true)
		}
	}
	return out
}
