package repositories

import (
	"context"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
)

// RoleRepository define a interface para persistência de roles
type RoleRepository interface {
	Create(ctx context.Context, role *entities.Role) error
	FindByID(ctx context.Context, id uint) (*entities.Role, error)
	FindByName(ctx context.Context, name string) (*entities.Role, error)
	Update(ctx context.Context, role *entities.Role) error
	List(ctx context.Context) ([]*entities.Role, error)
}
