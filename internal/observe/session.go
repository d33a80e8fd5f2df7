package observe

import "context"

type sessionKey struct{}

// ContextWithSession tags ctx with the client session id so analytics can
// group one user's searches and clicks.
func ContextWithSession(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFrom returns the session id stored in ctx, or "".
func SessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
