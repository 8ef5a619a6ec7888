package middleware

import "context"

type userSlotKey struct{}

func withUserSlot(ctx context.Context, slot *string) context.Context {
	return context.WithValue(ctx, userSlotKey{}, slot)
}
