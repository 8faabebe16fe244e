package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/domain/repositories"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/logging"
)

func newTestLogger() ports.Logger {
	return logging.NewDiscardLogger()
}

// MockUserRepository implementa repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*entities.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entities.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entities.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	args := m.Called(ctx, filters)
	users, _ := args.Get(0).([]*entities.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) ListIDsByRole(ctx context.Context, roleID uint) ([]uint, error) {
	args := m.Called(ctx, roleID)
	ids, _ := args.Get(0).([]uint)
	return ids, args.Error(1)
}

// MockRoleRepository implementa repositories.RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Create(ctx context.Context, role *entities.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id uint) (*entities.Role, error) {
	args := m.Called(ctx, id)
	role, _ := args.Get(0).(*entities.Role)
	return role, args.Error(1)
}

func (m *MockRoleRepository) FindByName(ctx context.Context, name string) (*entities.Role, error) {
	args := m.Called(ctx, name)
	role, _ := args.Get(0).(*entities.Role)
	return role, args.Error(1)
}

func (m *MockRoleRepository) Update(ctx context.Context, role *entities.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *MockRoleRepository) List(ctx context.Context) ([]*entities.Role, error) {
	args := m.Called(ctx)
	roles, _ := args.Get(0).([]*entities.Role)
	return roles, args.Error(1)
}

// MockGuardianRepository implementa repositories.GuardianRepository
type MockGuardianRepository struct {
	mock.Mock
}

func (m *MockGuardianRepository) StudentExists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuardianRepository) RepresentativeExists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuardianRepository) KinshipExists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuardianRepository) ListKinships(ctx context.Context) ([]entities.Kinship, error) {
	args := m.Called(ctx)
	kinships, _ := args.Get(0).([]entities.Kinship)
	return kinships, args.Error(1)
}

func (m *MockGuardianRepository) FindLink(ctx context.Context, studentID, representativeID uint) (*entities.GuardianLink, error) {
	args := m.Called(ctx, studentID, representativeID)
	link, _ := args.Get(0).(*entities.GuardianLink)
	return link, args.Error(1)
}

func (m *MockGuardianRepository) ListByStudent(ctx context.Context, studentID uint) ([]*entities.GuardianLink, error) {
	args := m.Called(ctx, studentID)
	links, _ := args.Get(0).([]*entities.GuardianLink)
	return links, args.Error(1)
}

func (m *MockGuardianRepository) CreateLink(ctx context.Context, link *entities.GuardianLink) error {
	return m.Called(ctx, link).Error(0)
}

func (m *MockGuardianRepository) ClearPrincipal(ctx context.Context, studentID uint) error {
	return m.Called(ctx, studentID).Error(0)
}

func (m *MockGuardianRepository) DeleteLink(ctx context.Context, studentID, representativeID uint) (bool, error) {
	args := m.Called(ctx, studentID, representativeID)
	return args.Bool(0), args.Error(1)
}

// MockHasher implementa ports.PasswordHasher
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(pw []byte) ([]byte, error) {
	args := m.Called(pw)
	hash, _ := args.Get(0).([]byte)
	return hash, args.Error(1)
}

func (m *MockHasher) Compare(hash, pw []byte) error {
	return m.Called(hash, pw).Error(0)
}

// MockTokenService implementa ports.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(userID uint, sessionID string, ttl time.Duration) (string, error) {
	args := m.Called(userID, sessionID, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ParseAccessToken(token string) (*ports.TokenClaims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*ports.TokenClaims)
	return claims, args.Error(1)
}

// MockNotifier implementa ports.PermissionNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PermissionsChanged(ctx context.Context, userIDs []uint) {
	m.Called(ctx, userIDs)
}

// fakeUnitOfWork executa fn direto e registra se houve commit
type fakeUnitOfWork struct {
	committed  int
	rolledBack int
}

func (u *fakeUnitOfWork) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		u.rolledBack++
		return err
	}
	u.committed++
	return nil
}
