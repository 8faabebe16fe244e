package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/domain/valueobjects"
)

const minUserNameLength = 2

// User representa um usuário do sistema
type User struct {
	ID           uint
	Email        valueobjects.Email
	Name         string
	PasswordHash string
	RoleID       *uint
	Active       bool
	// AccessLevel nil significa que o backfill ainda não rodou para este usuário
	AccessLevel *AccessLevel
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EffectiveAccessLevel retorna o nível do usuário; ausente vale como padrão
func (u *User) EffectiveAccessLevel() AccessLevel {
	if u == nil || u.AccessLevel == nil || !u.AccessLevel.Valid() {
		return AccessLevelStandard
	}
	return *u.AccessLevel
}

// Validate normaliza o nome e confere as regras da entidade
func (u *User) Validate() error {
	if u.Email.String() == "" {
		return domainerrors.ErrInvalidEmail
	}

	u.Name = strings.TrimSpace(u.Name)
	if utf8.RuneCountInString(u.Name) < minUserNameLength {
		return domainerrors.ErrInvalidName
	}

	if u.AccessLevel != nil && !u.AccessLevel.Valid() {
		return ErrInvalidAccessLevel
	}

	return nil
}
