package domain

import "context"

// RequesterFromContext returns the requester stored by the auth
// middleware, or the anonymous requester when none was identified.
func RequesterFromContext(ctx context.Context) Requester {
	if r, ok := ctx.Value(RequesterCtxKey).(Requester); ok {
		return r
	}
	return Requester{}
}
