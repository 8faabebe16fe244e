package entities

import (
	"strings"
	"time"

	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
)

// Nomes dos roles padrão
const (
	RoleAdministrator  = "administrador"
	RoleCoordinator    = "coordinador"
	RoleTeacher        = "profesor"
	RoleRepresentative = "representante"
)

// Role representa um rol e seus dados de permissão
type Role struct {
	ID          uint
	Name        string
	Permissions []string
	// AccessLevelOverride vem embutido nos dados de permissão do rol
	AccessLevelOverride *AccessLevel
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DefaultRoles são semeados uma única vez se ausentes
var DefaultRoles = []Role{
	{
		Name:        RoleAdministrator,
		Permissions: []string{Wildcard},
	},
	{
		Name: RoleCoordinator,
		Permissions: []string{
			"alumnos:*",
			"representatives:*",
			"instruments:*",
			"programs:read",
			"staff:read",
			"eventos:*",
		},
	},
	{
		Name:        RoleTeacher,
		Permissions: []string{"alumnos:read", "eventos:read", "asistencia:write"},
	},
	{
		Name:        RoleRepresentative,
		Permissions: []string{"alumnos:read", "eventos:read"},
	},
}

// PermissionSet retorna o conjunto de capabilities do rol
func (r *Role) PermissionSet() PermissionSet {
	if r == nil {
		return EmptyPermissionSet()
	}
	return NewPermissionSet(r.Permissions)
}

// PermissionData agrupa permissões e override para persistência
func (r *Role) PermissionData() PermissionData {
	return PermissionData{Permissions: r.Permissions, Override: r.AccessLevelOverride}
}

// DefaultAccessLevel resolve o nível de acesso que um usuário deste rol recebe
func (r *Role) DefaultAccessLevel(rule AdminRoleRule) AccessLevel {
	if r == nil {
		return AccessLevelStandard
	}
	return ResolveAccessLevel(r.Name, r.AccessLevelOverride, rule)
}

// Validate valida regras de negócio da entidade Role
func (r *Role) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return domainerrors.ErrInvalidName
	}
	for _, p := range r.Permissions {
		if _, err := ParseCapability(p); err != nil {
			return ErrInvalidCapability
		}
	}
	if r.AccessLevelOverride != nil && !r.AccessLevelOverride.Valid() {
		return ErrInvalidAccessLevel
	}
	return nil
}
