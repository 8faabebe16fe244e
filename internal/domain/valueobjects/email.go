package valueobjects

import (
	"regexp"
	"strings"

	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
)

const maxEmailLength = 254

// Domínio sem TLD é aceito: as contas semeadas usam admin@local
var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9\-]+(\.[a-z0-9\-]+)*$`)

// Email é o endereço normalizado (minúsculo, sem espaços) usado como chave natural do usuario
type Email struct {
	value string
}

// NewEmail normaliza e valida o endereço. Falha com domainerrors.ErrInvalidEmail.
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if len(normalized) > maxEmailLength || !emailPattern.MatchString(normalized) {
		return Email{}, domainerrors.ErrInvalidEmail
	}
	return Email{value: normalized}, nil
}

func (e Email) String() string {
	return e.value
}

// Domain retorna a parte depois do @
func (e Email) Domain() string {
	_, domain, _ := strings.Cut(e.value, "@")
	return domain
}
