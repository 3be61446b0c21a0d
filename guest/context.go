package guest

import (
	"context"
)

const sessionKey privateKey = "session"

type privateKey string

// SetSession stores the derived session key in the context.
func SetSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSession returns the session key stored in the context, or an empty
// string if the fingerprint middleware has not run.
func GetSession(ctx context.Context) string {
	if temp := ctx.Value(sessionKey); temp != nil {
		if session, ok := temp.(string); ok {
			return session
		}
	}
	return ""
}
