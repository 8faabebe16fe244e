package services

import (
	"context"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/domain/repositories"
)

// GuardianService administra os vínculos alumno ↔ representante
type GuardianService struct {
	repo   repositories.GuardianRepository
	uow    ports.UnitOfWork
	logger ports.Logger
}

// NewGuardianService cria um novo GuardianService
func NewGuardianService(
	repo repositories.GuardianRepository,
	uow ports.UnitOfWork,
	logger ports.Logger,
) *GuardianService {
	return &GuardianService{
		repo:   repo,
		uow:    uow,
		logger: logger,
	}
}

// LinkInput representa um novo vínculo
type LinkInput struct {
	StudentID        uint
	RepresentativeID uint
	KinshipID        *uint
	Principal        bool
}

func (s *GuardianService) ListKinships(ctx context.Context) ([]entities.Kinship, error) {
	return s.repo.ListKinships(ctx)
}

// ListRepresentatives lista os representantes do alumno, principal primeiro
func (s *GuardianService) ListRepresentatives(ctx context.Context, studentID uint) ([]*entities.GuardianLink, error) {
	if err := s.ensureExists(ctx, s.repo.StudentExists, studentID, errors.ErrStudentNotFound); err != nil {
		return nil, err
	}
	return s.repo.ListByStudent(ctx, studentID)
}

// Link cria o vínculo. Marcar como principal desmarca o principal anterior na mesma transação.
func (s *GuardianService) Link(ctx context.Context, input LinkInput) (*entities.GuardianLink, error) {
	var link *entities.GuardianLink

	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ensureExists(txCtx, s.repo.StudentExists, input.StudentID, errors.ErrStudentNotFound); err != nil {
			return err
		}
		if err := s.ensureExists(txCtx, s.repo.RepresentativeExists, input.RepresentativeID, errors.ErrRepresentativeNotFound); err != nil {
			return err
		}
		if input.KinshipID != nil {
			if err := s.ensureExists(txCtx, s.repo.KinshipExists, *input.KinshipID, errors.ErrKinshipNotFound); err != nil {
				return err
			}
		}

		existing, err := s.repo.FindLink(txCtx, input.StudentID, input.RepresentativeID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errors.ErrGuardianLinkExists
		}

		if input.Principal {
			if err := s.repo.ClearPrincipal(txCtx, input.StudentID); err != nil {
				return err
			}
		}

		newLink := &entities.GuardianLink{
			StudentID:        input.StudentID,
			RepresentativeID: input.RepresentativeID,
			KinshipID:        input.KinshipID,
			Principal:        input.Principal,
		}
		if err := s.repo.CreateLink(txCtx, newLink); err != nil {
			return err
		}

		// relê para trazer nome do representante e parentesco
		link, err = s.repo.FindLink(txCtx, input.StudentID, input.RepresentativeID)
		if err != nil {
			return err
		}
		if link == nil {
			link = newLink
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("guardian linked",
		"student_id", input.StudentID,
		"representative_id", input.RepresentativeID,
		"principal", input.Principal,
	)
	return link, nil
}

// Unlink remove o vínculo
func (s *GuardianService) Unlink(ctx context.Context, studentID, representativeID uint) error {
	deleted, err := s.repo.DeleteLink(ctx, studentID, representativeID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.ErrGuardianLinkNotFound
	}

	s.logger.Info("guardian unlinked", "student_id", studentID, "representative_id", representativeID)
	return nil
}

func (s *GuardianService) ensureExists(ctx context.Context, exists func(context.Context, uint) (bool, error), id uint, notFound error) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}
