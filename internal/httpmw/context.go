package httpmw

import "context"

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	usernameKey contextKey = "username"
	roleKey     contextKey = "role"
)

// UserIDFrom returns the authenticated user id, zero when unauthenticated
func UserIDFrom(ctx context.Context) uint {
	id, _ := ctx.Value(userIDKey).(uint)
	return id
}

// RoleFrom returns the authenticated role, empty when unauthenticated
func RoleFrom(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

// UsernameFrom returns the authenticated username, empty when unauthenticated
func UsernameFrom(ctx context.Context) string {
	name, _ := ctx.Value(usernameKey).(string)
	return name
}
