package httpx

import "context"

type ctxKey string

const CtxKeyBody ctxKey = "body"

func WithBody(ctx context.Context, body map[string]any) context.Context {
	return context.WithValue(ctx, CtxKeyBody, body)
}

// BodyFromContext returns the decoded JSON body, or an empty object if none
// was stored.
func BodyFromContext(ctx context.Context) map[string]any {
	if v, ok := ctx.Value(CtxKeyBody).(map[string]any); ok {
		return v
	}
	return map[string]any{}
}
