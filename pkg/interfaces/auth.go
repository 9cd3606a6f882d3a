package interfaces

import "context"

// AuthProvider answers permission questions for the current request. Hosts
// typically back it with their session or capability system.
type AuthProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
	HasPermission(ctx context.Context, permission string) (bool, error)
}
