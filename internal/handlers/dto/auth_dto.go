package dto

import (
	"time"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/services"
)

// LoginRequest representa as credenciais de login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginResponse devolve o token de acesso e a identidade resolvida
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	SessionID   string           `json:"session_id"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Identity    IdentityResponse `json:"identity"`
}

// IdentityResponse é a identidade que o cliente guarda para decidir o que exibir
type IdentityResponse struct {
	UserID                   uint     `json:"user_id"`
	Name                     string   `json:"name"`
	Email                    string   `json:"email"`
	Role                     string   `json:"role,omitempty"`
	RoleID                   *uint    `json:"role_id,omitempty"`
	AccessLevel              int      `json:"access_level"`
	Permissions              []string `json:"permissions"`
	CanSeeAdministrativeArea bool     `json:"can_see_administrative_area"`
}

// ToIdentityResponse converte a identidade resolvida
func ToIdentityResponse(identity *entities.Identity) IdentityResponse {
	if identity == nil {
		identity = entities.RestrictedIdentity(0)
	}
	return IdentityResponse{
		UserID:                   identity.UserID,
		Name:                     identity.Name,
		Email:                    identity.Email,
		Role:                     identity.Role,
		RoleID:                   identity.RoleID,
		AccessLevel:              int(identity.AccessLevel),
		Permissions:              identity.Permissions.Strings(),
		CanSeeAdministrativeArea: identity.CanSeeAdministrativeArea(),
	}
}

// ToLoginResponse converte o resultado do login
func ToLoginResponse(result *services.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		SessionID:   result.SessionID,
		ExpiresAt:   result.ExpiresAt,
		Identity:    ToIdentityResponse(result.Identity),
	}
}
