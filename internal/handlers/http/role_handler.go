package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/handlers/dto"
	"github.com/rafabene/orquesta-admin/internal/services"
)

// RoleHandler expõe os roles e seus conjuntos de capabilities
type RoleHandler struct {
	roleService *services.RoleService
	logger      ports.Logger
}

func NewRoleHandler(roleService *services.RoleService, logger ports.Logger) *RoleHandler {
	return &RoleHandler{roleService: roleService, logger: logger}
}

// ListRoles
//
//	@Summary	Listar roles
//	@Tags		roles
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		dto.RoleResponse
//	@Failure	403	{object}	dto.ErrorResponse
//	@Router		/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleResponses(roles))
}

// GetRole
//
//	@Summary	Buscar rol
//	@Tags		roles
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"ID do rol"
//	@Success	200	{object}	dto.RoleResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/roles/{id} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	role, err := h.roleService.GetRole(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleResponse(role))
}

// CreateRole
//
//	@Summary	Criar rol
//	@Tags		roles
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		dto.CreateRoleRequest	true	"Rol"
//	@Success	201		{object}	dto.RoleResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Abort(c, dto.BindingErrorResponseI18n(c, err))
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRoleResponse(role))
}

// ReplacePermissions troca o conjunto de capabilities e avisa os membros conectados
//
//	@Summary	Substituir permissões do rol
//	@Tags		roles
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int								true	"ID do rol"
//	@Param		request	body		dto.ReplacePermissionsRequest	true	"Permissões"
//	@Success	200		{object}	dto.RoleResponse
//	@Failure	400		{object}	dto.ErrorResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Router		/roles/{id}/permissions [put]
func (h *RoleHandler) ReplacePermissions(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReplacePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Abort(c, dto.BindingErrorResponseI18n(c, err))
		return
	}

	role, err := h.roleService.ReplacePermissions(c.Request.Context(), id, req.Permissions, req.AccessLevel)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleResponse(role))
}
