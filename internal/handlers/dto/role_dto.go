package dto

import (
	"time"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/services"
)

// CreateRoleRequest cria um rol com seu conjunto de capabilities
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=100"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,capability"`
	AccessLevel *int     `json:"access_level" binding:"omitempty,min=0,max=2"`
}

// ToInput converte para a entrada do serviço
func (r CreateRoleRequest) ToInput() services.RoleInput {
	return services.RoleInput{
		Name:        r.Name,
		Permissions: r.Permissions,
		AccessLevel: r.AccessLevel,
	}
}

// ReplacePermissionsRequest substitui todo o conjunto de capabilities do rol
type ReplacePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"omitempty,dive,capability"`
	AccessLevel *int     `json:"access_level" binding:"omitempty,min=0,max=2"`
}

// RoleResponse representa um rol
type RoleResponse struct {
	ID                  uint      `json:"id"`
	Name                string    `json:"name"`
	Permissions         []string  `json:"permissions"`
	AccessLevelOverride *int      `json:"access_level_override,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ToRoleResponse converte uma entidade Role
func ToRoleResponse(role *entities.Role) RoleResponse {
	resp := RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Permissions: role.Permissions,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
	if resp.Permissions == nil {
		resp.Permissions = []string{}
	}
	if role.AccessLevelOverride != nil {
		level := int(*role.AccessLevelOverride)
		resp.AccessLevelOverride = &level
	}
	return resp
}

// ToRoleResponses converte uma lista de roles
func ToRoleResponses(roles []*entities.Role) []RoleResponse {
	responses := make([]RoleResponse, len(roles))
	for i, role := range roles {
		responses[i] = ToRoleResponse(role)
	}
	return responses
}
