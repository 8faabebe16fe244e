package repositories

import (
	"context"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
)

// GuardianRepository persiste a tabela ponte alumno_representante
type GuardianRepository interface {
	StudentExists(ctx context.Context, studentID uint) (bool, error)
	RepresentativeExists(ctx context.Context, representativeID uint) (bool, error)
	KinshipExists(ctx context.Context, kinshipID uint) (bool, error)
	ListKinships(ctx context.Context) ([]entities.Kinship, error)

	FindLink(ctx context.Context, studentID, representativeID uint) (*entities.GuardianLink, error)
	ListByStudent(ctx context.Context, studentID uint) ([]*entities.GuardianLink, error)
	CreateLink(ctx context.Context, link *entities.GuardianLink) error
	ClearPrincipal(ctx context.Context, studentID uint) error
	DeleteLink(ctx context.Context, studentID, representativeID uint) (bool, error)
}
