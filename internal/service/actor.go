package service

import "context"

type actorKey struct{}

// WithActorID returns a context recording the id of the authenticated user
// performing the operation. It is stamped into the audit columns.
func WithActorID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorID returns the acting user's id, or nil for anonymous operations
// such as self-registration.
func ActorID(ctx context.Context) *int64 {
	id, ok := ctx.Value(actorKey{}).(int64)
	if !ok || id <= 0 {
		return nil
	}
	return &id
}
