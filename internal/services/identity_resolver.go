package services

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/domain/repositories"
)

// IdentityResolver monta a identidade (rol, nível de acesso, permissões) de um usuário.
// Chamadas concorrentes para o mesmo usuário compartilham uma única busca em andamento;
// nada é guardado depois que a busca termina.
type IdentityResolver struct {
	userRepo repositories.UserRepository
	roleRepo repositories.RoleRepository
	group    singleflight.Group
	logger   ports.Logger
}

// NewIdentityResolver cria um novo IdentityResolver
func NewIdentityResolver(
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	logger ports.Logger,
) *IdentityResolver {
	return &IdentityResolver{
		userRepo: userRepo,
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// Resolve retorna a identidade atual do usuário. A identidade retornada pode ser
// compartilhada entre chamadores concorrentes e não deve ser alterada.
// A busca compartilhada não herda o cancelamento de quem a iniciou; cada chamador
// desiste apenas quando o próprio ctx termina.
func (r *IdentityResolver) Resolve(ctx context.Context, userID uint) (*entities.Identity, error) {
	key := "user:" + strconv.FormatUint(uint64(userID), 10)

	ch := r.group.DoChan(key, func() (any, error) {
		return r.load(context.WithoutCancel(ctx), userID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entities.Identity), nil
	}
}

// Authorize re-resolve a identidade no servidor e confere a capability
func (r *IdentityResolver) Authorize(ctx context.Context, userID uint, resource, action string) (bool, error) {
	identity, err := r.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return identity.HasPermission(resource, action), nil
}

func (r *IdentityResolver) load(ctx context.Context, userID uint) (*entities.Identity, error) {
	user, err := r.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}
	if !user.Active {
		return nil, errors.ErrInactiveUser
	}

	var role *entities.Role
	if user.RoleID != nil {
		role, err = r.roleRepo.FindByID(ctx, *user.RoleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			r.logger.Warn("user references missing role", "user_id", userID, "role_id", *user.RoleID)
		}
	}

	return entities.ResolveIdentity(user, role), nil
}
