package services

import (
	"context"
	"strings"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/domain/repositories"
)

// RoleService administra roles e seus conjuntos de permissões
type RoleService struct {
	roleRepo repositories.RoleRepository
	userRepo repositories.UserRepository
	notifier ports.PermissionNotifier
	logger   ports.Logger
}

// NewRoleService cria um novo RoleService
func NewRoleService(
	roleRepo repositories.RoleRepository,
	userRepo repositories.UserRepository,
	notifier ports.PermissionNotifier,
	logger ports.Logger,
) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		notifier: notifier,
		logger:   logger,
	}
}

// RoleInput representa nome, permissões e override de nível de um rol
type RoleInput struct {
	Name        string
	Permissions []string
	AccessLevel *int
}

func (s *RoleService) ListRoles(ctx context.Context) ([]*entities.Role, error) {
	return s.roleRepo.List(ctx)
}

func (s *RoleService) GetRole(ctx context.Context, id uint) (*entities.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, errors.ErrRoleNotFound
	}
	return role, nil
}

// CreateRole cria um rol com nome único
func (s *RoleService) CreateRole(ctx context.Context, input RoleInput) (*entities.Role, error) {
	perms, override, err := normalizePermissions(input.Permissions, input.AccessLevel)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	existing, err := s.roleRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.ErrRoleAlreadyExists
	}

	role := &entities.Role{Name: name, Permissions: perms, AccessLevelOverride: override}
	if err := role.Validate(); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("role created", "role_id", role.ID, "role", role.Name)
	return role, nil
}

// ReplacePermissions substitui o conjunto de permissões do rol e avisa os membros
// conectados para que busquem a identidade novamente.
func (s *RoleService) ReplacePermissions(ctx context.Context, id uint, permissions []string, accessLevel *int) (*entities.Role, error) {
	role, err := s.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}

	perms, override, err := normalizePermissions(permissions, accessLevel)
	if err != nil {
		return nil, err
	}
	role.Permissions = perms
	role.AccessLevelOverride = override

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	members, err := s.userRepo.ListIDsByRole(ctx, role.ID)
	if err != nil {
		// as permissões já foram gravadas; sem aviso, os clientes atualizam no próximo /me
		s.logger.Warn("failed to list role members for notification", "role_id", role.ID, "error", err)
		return role, nil
	}

	s.logger.Info("role permissions replaced", "role_id", role.ID, "permissions", len(perms), "members", len(members))
	if len(members) > 0 {
		s.notifier.PermissionsChanged(ctx, members)
	}
	return role, nil
}

// normalizePermissions valida cada capability e devolve a forma canônica "recurso:acao"
func normalizePermissions(raw []string, accessLevel *int) ([]string, *entities.AccessLevel, error) {
	set := make(map[string]struct{}, len(raw))
	perms := make([]string, 0, len(raw))
	for _, p := range raw {
		capability, err := entities.ParseCapability(p)
		if err != nil {
			return nil, nil, errors.ErrInvalidPermission
		}
		key := capability.String()
		if _, ok := set[key]; ok {
			continue
		}
		set[key] = struct{}{}
		perms = append(perms, key)
	}

	if accessLevel == nil {
		return perms, nil, nil
	}
	level, err := entities.NewAccessLevel(*accessLevel)
	if err != nil {
		return nil, nil, errors.ErrInvalidAccessLevel
	}
	return perms, &level, nil
}
