package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/handlers/dto"
)

// uintParam lê um id numérico da rota; responde 400 quando inválido
func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		dto.Abort(c, dto.NewErrorResponseI18n(c, domainerrors.ProblemTypeBadRequest,
			"error.bad_request.title", "error.bad_request.detail", http.StatusBadRequest))
		return 0, false
	}
	return uint(id), true
}
