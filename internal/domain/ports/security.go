package ports

import "time"

// PasswordHasher gera e confere hashes de senha
type PasswordHasher interface {
	Hash(password []byte) ([]byte, error)
	Compare(hash, password []byte) error
}

// TokenClaims é o que o token de acesso carrega
type TokenClaims struct {
	UserID    uint
	SessionID string
	ExpiresAt time.Time
}

// TokenService emite e valida tokens de acesso
type TokenService interface {
	GenerateAccessToken(userID uint, sessionID string, ttl time.Duration) (string, error)
	ParseAccessToken(token string) (*TokenClaims, error)
}
