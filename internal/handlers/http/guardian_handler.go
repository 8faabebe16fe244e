package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/handlers/dto"
	"github.com/rafabene/orquesta-admin/internal/services"
)

// GuardianHandler gerencia os representantes de um alumno
type GuardianHandler struct {
	guardianService *services.GuardianService
	logger          ports.Logger
}

func NewGuardianHandler(guardianService *services.GuardianService, logger ports.Logger) *GuardianHandler {
	return &GuardianHandler{guardianService: guardianService, logger: logger}
}

// ListRepresentatives
//
//	@Summary	Representantes do alumno
//	@Tags		representatives
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"ID do alumno"
//	@Success	200	{array}		dto.GuardianLinkResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/students/{id}/representatives [get]
func (h *GuardianHandler) ListRepresentatives(c *gin.Context) {
	studentID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	links, err := h.guardianService.ListRepresentatives(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGuardianLinkResponses(links))
}

// Link vincula um representante; principal=true desmarca o principal anterior
//
//	@Summary	Vincular representante
//	@Tags		representatives
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int								true	"ID do alumno"
//	@Param		request	body		dto.LinkRepresentativeRequest	true	"Vínculo"
//	@Success	201		{object}	dto.GuardianLinkResponse
//	@Failure	404		{object}	dto.ErrorResponse
//	@Failure	409		{object}	dto.ErrorResponse
//	@Router		/students/{id}/representatives [post]
func (h *GuardianHandler) Link(c *gin.Context) {
	studentID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req dto.LinkRepresentativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.Abort(c, dto.BindingErrorResponseI18n(c, err))
		return
	}

	link, err := h.guardianService.Link(c.Request.Context(), services.LinkInput{
		StudentID:        studentID,
		RepresentativeID: req.RepresentativeID,
		KinshipID:        req.KinshipID,
		Principal:        req.Principal,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGuardianLinkResponse(link))
}

// Unlink
//
//	@Summary	Desvincular representante
//	@Tags		representatives
//	@Security	BearerAuth
//	@Param		id		path	int	true	"ID do alumno"
//	@Param		repId	path	int	true	"ID do representante"
//	@Success	204
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/students/{id}/representatives/{repId} [delete]
func (h *GuardianHandler) Unlink(c *gin.Context) {
	studentID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	representativeID, ok := uintParam(c, "repId")
	if !ok {
		return
	}

	if err := h.guardianService.Unlink(c.Request.Context(), studentID, representativeID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListKinships
//
//	@Summary	Listar parentescos
//	@Tags		representatives
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	dto.KinshipResponse
//	@Router		/parentescos [get]
func (h *GuardianHandler) ListKinships(c *gin.Context) {
	kinships, err := h.guardianService.ListKinships(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToKinshipResponses(kinships))
}
