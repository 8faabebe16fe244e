// Package errors reúne os erros de negócio. O texto de cada erro é o id da mensagem
// no catálogo i18n (internal/infrastructure/i18n/locales), então handlers traduzem
// direto com err.Error().
package errors

import "errors"

// Autenticação e autorização
var (
	ErrInvalidCredentials = errors.New("error.invalid_credentials")
	ErrInactiveUser       = errors.New("error.inactive_user")
	ErrUnauthorized       = errors.New("error.unauthorized")
	ErrForbidden          = errors.New("error.forbidden")
	ErrAccessDenied       = errors.New("error.access_denied")
)

// Recursos ausentes ou duplicados
var (
	ErrUserNotFound           = errors.New("error.user_not_found")
	ErrEmailAlreadyExists     = errors.New("error.email_already_exists")
	ErrRoleNotFound           = errors.New("error.role_not_found")
	ErrRoleAlreadyExists      = errors.New("error.role_already_exists")
	ErrStudentNotFound        = errors.New("error.student_not_found")
	ErrRepresentativeNotFound = errors.New("error.representative_not_found")
	ErrKinshipNotFound        = errors.New("error.kinship_not_found")
	ErrGuardianLinkExists     = errors.New("error.guardian_link_exists")
	ErrGuardianLinkNotFound   = errors.New("error.guardian_link_not_found")
)

// Valores de entrada rejeitados pelo domínio
var (
	ErrInvalidEmail       = errors.New("error.invalid_email")
	ErrInvalidName        = errors.New("error.invalid_name")
	ErrInvalidPermission  = errors.New("error.invalid_permission")
	ErrInvalidAccessLevel = errors.New("error.invalid_access_level")
)

// Caminhos dos tipos RFC 7807. O prefixo vem de API_BASE_URL.
const (
	ProblemTypeValidation   = "/problems/validation-error"
	ProblemTypeNotFound     = "/problems/not-found"
	ProblemTypeConflict     = "/problems/conflict"
	ProblemTypeUnauthorized = "/problems/unauthorized"
	ProblemTypeForbidden    = "/problems/forbidden"
	ProblemTypeInternal     = "/problems/internal-error"
	ProblemTypeBadRequest   = "/problems/bad-request"
)
