package services

import (
	"context"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/domain/repositories"
	"github.com/rafabene/orquesta-admin/internal/domain/valueobjects"
)

// UserService contém a lógica de negócio para usuários
type UserService struct {
	userRepo  repositories.UserRepository
	roleRepo  repositories.RoleRepository
	hasher    ports.PasswordHasher
	notifier  ports.PermissionNotifier
	adminRule entities.AdminRoleRule
	logger    ports.Logger
}

// NewUserService cria um novo UserService
func NewUserService(
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	hasher ports.PasswordHasher,
	notifier ports.PermissionNotifier,
	adminRule entities.AdminRoleRule,
	logger ports.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		hasher:    hasher,
		notifier:  notifier,
		adminRule: adminRule,
		logger:    logger,
	}
}

// CreateUserInput representa os dados para criar um usuário
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	RoleID   *uint
	// AccessLevel nil usa o nível padrão do rol
	AccessLevel *int
}

// UpdateUserInput contém os campos alteráveis; nil mantém o valor atual.
// ClearRole remove o rol do usuário e tem precedência sobre RoleID.
type UpdateUserInput struct {
	Name        *string
	RoleID      *uint
	ClearRole   bool
	Active      *bool
	AccessLevel *int
}

// CreateUser cria um novo usuário
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*entities.User, error) {
	s.logger.Info("creating user", "email", input.Email)

	email, err := valueobjects.NewEmail(input.Email)
	if err != nil {
		return nil, err
	}

	// Validar se email já existe
	existing, err := s.userRepo.FindByEmail(ctx, email.String())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.ErrEmailAlreadyExists
	}

	role, err := s.findRole(ctx, input.RoleID)
	if err != nil {
		return nil, err
	}

	level := role.DefaultAccessLevel(s.adminRule)
	if input.AccessLevel != nil {
		if level, err = entities.NewAccessLevel(*input.AccessLevel); err != nil {
			return nil, errors.ErrInvalidAccessLevel
		}
	}

	hash, err := s.hasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        email,
		Name:         input.Name,
		PasswordHash: string(hash),
		RoleID:       input.RoleID,
		Active:       true,
		AccessLevel:  &level,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "access_level", int(level))
	return user, nil
}

// UpdateUser altera rol, status ou nível de acesso e avisa as sessões abertas do usuário.
// Quando o rol muda e nenhum nível é enviado, o nível volta ao padrão do novo rol,
// pelas mesmas regras da criação.
func (s *UserService) UpdateUser(ctx context.Context, id uint, input UpdateUserInput) (*entities.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}

	var (
		newRole     *entities.Role
		roleChanged bool
	)
	switch {
	case input.ClearRole:
		roleChanged = user.RoleID != nil
		user.RoleID = nil
	case input.RoleID != nil:
		if newRole, err = s.findRole(ctx, input.RoleID); err != nil {
			return nil, err
		}
		roleChanged = user.RoleID == nil || *user.RoleID != *input.RoleID
		user.RoleID = input.RoleID
	}

	if input.Active != nil {
		user.Active = *input.Active
	}

	switch {
	case input.AccessLevel != nil:
		level, err := entities.NewAccessLevel(*input.AccessLevel)
		if err != nil {
			return nil, errors.ErrInvalidAccessLevel
		}
		user.AccessLevel = &level
	case roleChanged:
		level := newRole.DefaultAccessLevel(s.adminRule)
		user.AccessLevel = &level
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.PermissionsChanged(ctx, []uint{user.ID})
	return user, nil
}

// GetUser busca um usuário por ID
func (s *UserService) GetUser(ctx context.Context, id uint) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}

// ListUsers lista usuários com filtros
func (s *UserService) ListUsers(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	return s.userRepo.List(ctx, filters)
}

// findRole retorna nil para roleID nil e ErrRoleNotFound para rol inexistente
func (s *UserService) findRole(ctx context.Context, roleID *uint) (*entities.Role, error) {
	if roleID == nil {
		return nil, nil
	}
	role, err := s.roleRepo.FindByID(ctx, *roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, errors.ErrRoleNotFound
	}
	return role, nil
}
