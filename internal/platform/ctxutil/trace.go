package ctxutil

import "context"

type traceDataKey struct{}

// TraceData carries correlation ids for logs and response headers.
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
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// Actor is the email recorded as author on writes, "system" outside a request.
func Actor(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil && rd.Email != "" {
		return rd.Email
	}
	return "system"
}
