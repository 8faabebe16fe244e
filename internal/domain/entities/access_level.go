package entities

import (
	"fmt"
	"strings"

	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
)

// AccessLevel é o nível de acesso do usuário (0 = maior)
type AccessLevel int

const (
	// AccessLevelFull acessa a área administrativa sem condições
	AccessLevelFull AccessLevel = 0
	// AccessLevelConditional acessa a área administrativa se tiver alguma permissão administrativa
	AccessLevelConditional AccessLevel = 1
	// AccessLevelStandard nunca acessa a área administrativa
	AccessLevelStandard AccessLevel = 2
)

var ErrInvalidAccessLevel = fmt.Errorf("access level out of range: %w", domainerrors.ErrInvalidAccessLevel)

// NewAccessLevel valida um nível vindo do banco ou da API
func NewAccessLevel(v int) (AccessLevel, error) {
	level := AccessLevel(v)
	if !level.Valid() {
		return AccessLevelStandard, ErrInvalidAccessLevel
	}
	return level, nil
}

func (l AccessLevel) Valid() bool {
	return l >= AccessLevelFull && l <= AccessLevelStandard
}

// DefaultAdminRolePattern é o trecho que identifica um rol administrativo pelo nome
const DefaultAdminRolePattern = "admin"

// AdminRoleRule decide se um nome de rol é administrativo (substring, sem diferenciar maiúsculas)
type AdminRoleRule struct {
	Pattern string
}

// NewAdminRoleRule cria a regra; padrão vazio usa "admin"
func NewAdminRoleRule(pattern string) AdminRoleRule {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = DefaultAdminRolePattern
	}
	return AdminRoleRule{Pattern: strings.ToLower(pattern)}
}

func (r AdminRoleRule) Matches(roleName string) bool {
	pattern := r.Pattern
	if pattern == "" {
		pattern = DefaultAdminRolePattern
	}
	return strings.Contains(strings.ToLower(roleName), pattern)
}

// ResolveAccessLevel aplica as regras em ordem, a primeira que casar vence:
// override explícito do rol, nome administrativo (nível 0), padrão (nível 2).
func ResolveAccessLevel(roleName string, override *AccessLevel, rule AdminRoleRule) AccessLevel {
	if override != nil && override.Valid() {
		return *override
	}
	if roleName != "" && rule.Matches(roleName) {
		return AccessLevelFull
	}
	return AccessLevelStandard
}
