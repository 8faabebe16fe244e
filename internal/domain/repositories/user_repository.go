package repositories

import (
	"context"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
)

// UserRepository persiste usuários. Find* devolvem (nil, nil) quando não há registro.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id uint) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	List(ctx context.Context, filters UserFilters) ([]*entities.User, error)
	// ListIDsByRole lista os membros do rol, usados no aviso de permissões alteradas
	ListIDsByRole(ctx context.Context, roleID uint) ([]uint, error)
}

// UserFilters filtra e pagina List. Campos nil não filtram; Page começa em 1.
type UserFilters struct {
	RoleID   *uint
	Active   *bool
	Page     int
	PageSize int
}
