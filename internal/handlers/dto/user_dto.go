package dto

import (
	"time"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/domain/repositories"
	"github.com/rafabene/orquesta-admin/internal/services"
)

// CreateUserRequest representa a requisição para criar um usuário
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,max=254"`
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	RoleID      *uint  `json:"role_id"`
	AccessLevel *int   `json:"access_level" binding:"omitempty,min=0,max=2"`
}

// ToInput converte para a entrada do serviço
func (r CreateUserRequest) ToInput() services.CreateUserInput {
	return services.CreateUserInput{
		Email:       r.Email,
		Name:        r.Name,
		Password:    r.Password,
		RoleID:      r.RoleID,
		AccessLevel: r.AccessLevel,
	}
}

// UpdateUserRequest representa a requisição para atualizar um usuário
type UpdateUserRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	RoleID      *uint   `json:"role_id"`
	ClearRole   bool    `json:"clear_role" binding:"excluded_with=RoleID"`
	Active      *bool   `json:"active"`
	AccessLevel *int    `json:"access_level" binding:"omitempty,min=0,max=2"`
}

// ToInput converte para a entrada do serviço
func (r UpdateUserRequest) ToInput() services.UpdateUserInput {
	return services.UpdateUserInput{
		Name:        r.Name,
		RoleID:      r.RoleID,
		ClearRole:   r.ClearRole,
		Active:      r.Active,
		AccessLevel: r.AccessLevel,
	}
}

// ListUsersQuery são os filtros aceitos na listagem
type ListUsersQuery struct {
	RoleID   *uint `form:"role_id"`
	Active   *bool `form:"active"`
	Page     int   `form:"page" binding:"omitempty,min=1"`
	PageSize int   `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToFilters converte para os filtros do repositório, aplicando os padrões
func (q ListUsersQuery) ToFilters() repositories.UserFilters {
	filters := repositories.UserFilters{
		RoleID:   q.RoleID,
		Active:   q.Active,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if filters.Page == 0 {
		filters.Page = 1
	}
	if filters.PageSize == 0 {
		filters.PageSize = 20
	}
	return filters
}

// UserResponse representa a resposta de um usuário
type UserResponse struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	RoleID      *uint     `json:"role_id,omitempty"`
	Active      bool      `json:"active"`
	AccessLevel int       `json:"access_level"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserListResponse é uma página de usuários
type UserListResponse struct {
	Items    []UserResponse `json:"items"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ToUserResponse converte uma entidade User para UserResponse
func ToUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email.String(),
		Name:        user.Name,
		RoleID:      user.RoleID,
		Active:      user.Active,
		AccessLevel: int(user.EffectiveAccessLevel()),
		CreatedAt:   user.CreatedAt,
	}
}

// ToUserResponses converte uma lista de entidades User para UserResponse
func ToUserResponses(users []*entities.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}
	return responses
}
