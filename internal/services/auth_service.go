package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/domain/repositories"
	"github.com/rafabene/orquesta-admin/internal/domain/valueobjects"
)

// AuthService autentica usuários e emite tokens de acesso
type AuthService struct {
	userRepo  repositories.UserRepository
	resolver  *IdentityResolver
	hasher    ports.PasswordHasher
	tokens    ports.TokenService
	accessTTL time.Duration
	logger    ports.Logger
	now       func() time.Time
}

// NewAuthService cria um novo AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	resolver *IdentityResolver,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	accessTTL time.Duration,
	logger ports.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		resolver:  resolver,
		hasher:    hasher,
		tokens:    tokens,
		accessTTL: accessTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// LoginInput representa as credenciais do login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult é a sessão criada pelo login
type LoginResult struct {
	AccessToken string
	SessionID   string
	ExpiresAt   time.Time
	Identity    *entities.Identity
}

// Login confere as credenciais, emite o token e resolve a identidade
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email, err := valueobjects.NewEmail(input.Email)
	if err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email.String())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrInvalidCredentials
	}
	if err := s.hasher.Compare([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.logger.Info("login rejected", "user_id", user.ID)
		return nil, errors.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, errors.ErrInactiveUser
	}

	identity, err := s.resolver.Resolve(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	token, err := s.tokens.GenerateAccessToken(user.ID, sessionID, s.accessTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "session_id", sessionID)

	return &LoginResult{
		AccessToken: token,
		SessionID:   sessionID,
		ExpiresAt:   s.now().Add(s.accessTTL),
		Identity:    identity,
	}, nil
}

// Authenticate valida o token e retorna suas claims
func (s *AuthService) Authenticate(token string) (*ports.TokenClaims, error) {
	claims, err := s.tokens.ParseAccessToken(token)
	if err != nil {
		return nil, errors.ErrUnauthorized
	}
	return claims, nil
}

// Me restaura a sessão: sempre re-resolve a identidade a partir do banco
func (s *AuthService) Me(ctx context.Context, userID uint) (*entities.Identity, error) {
	return s.resolver.Resolve(ctx, userID)
}
