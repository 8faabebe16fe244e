package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/handlers/dto"
)

type errorResponder func(c *gin.Context, key string) dto.ErrorResponse

// errorTable associa erros de negócio a respostas RFC 7807; a chave i18n do
// detalhe é o próprio texto do erro
var errorTable = []struct {
	errs    []error
	respond errorResponder
}{
	{
		errs: []error{
			domainerrors.ErrUserNotFound,
			domainerrors.ErrRoleNotFound,
			domainerrors.ErrStudentNotFound,
			domainerrors.ErrRepresentativeNotFound,
			domainerrors.ErrKinshipNotFound,
			domainerrors.ErrGuardianLinkNotFound,
		},
		respond: dto.NotFoundErrorResponseI18n,
	},
	{
		errs: []error{
			domainerrors.ErrEmailAlreadyExists,
			domainerrors.ErrRoleAlreadyExists,
			domainerrors.ErrGuardianLinkExists,
		},
		respond: func(c *gin.Context, key string) dto.ErrorResponse {
			return dto.ConflictErrorResponseI18n(c, key)
		},
	},
	{
		errs: []error{
			domainerrors.ErrInvalidEmail,
			domainerrors.ErrInvalidName,
			domainerrors.ErrInvalidPermission,
			domainerrors.ErrInvalidAccessLevel,
		},
		respond: dto.BadRequestErrorResponseI18n,
	},
	{
		errs: []error{
			domainerrors.ErrInvalidCredentials,
			domainerrors.ErrInactiveUser,
			domainerrors.ErrUnauthorized,
		},
		respond: dto.UnauthorizedErrorResponseI18n,
	},
}

// respondError converte err na resposta adequada e aborta a requisição
func respondError(c *gin.Context, logger ports.Logger, err error) {
	for _, entry := range errorTable {
		for _, target := range entry.errs {
			if errors.Is(err, target) {
				dto.Abort(c, entry.respond(c, target.Error()))
				return
			}
		}
	}

	if errors.Is(err, domainerrors.ErrAccessDenied) || errors.Is(err, domainerrors.ErrForbidden) {
		dto.Abort(c, dto.NewErrorResponseI18n(c, domainerrors.ProblemTypeForbidden,
			"error.forbidden.title", domainerrors.ErrAccessDenied.Error(), http.StatusForbidden))
		return
	}

	logger.Error("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	dto.Abort(c, dto.InternalErrorResponseI18n(c))
}
