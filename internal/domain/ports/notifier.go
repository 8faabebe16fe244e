package ports

import "context"

// PermissionNotifier avisa sessões abertas de que suas permissões mudaram
type PermissionNotifier interface {
	PermissionsChanged(ctx context.Context, userIDs []uint)
}
