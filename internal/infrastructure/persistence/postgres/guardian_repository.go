package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/domain/repositories"
)

// GuardianRepository implementa repositories.GuardianRepository
type GuardianRepository struct {
	db *gorm.DB
}

// NewGuardianRepository cria um novo GuardianRepository
func NewGuardianRepository(db *gorm.DB) repositories.GuardianRepository {
	return &GuardianRepository{db: db}
}

func (r *GuardianRepository) exists(ctx context.Context, model any, id uint) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GuardianRepository) StudentExists(ctx context.Context, studentID uint) (bool, error) {
	return r.exists(ctx, &StudentModel{}, studentID)
}

func (r *GuardianRepository) RepresentativeExists(ctx context.Context, representativeID uint) (bool, error) {
	return r.exists(ctx, &RepresentativeModel{}, representativeID)
}

func (r *GuardianRepository) KinshipExists(ctx context.Context, kinshipID uint) (bool, error) {
	return r.exists(ctx, &KinshipModel{}, kinshipID)
}

func (r *GuardianRepository) ListKinships(ctx context.Context) ([]entities.Kinship, error) {
	var models []KinshipModel
	if err := dbFromContext(ctx, r.db).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	kinships := make([]entities.Kinship, 0, len(models))
	for _, m := range models {
		kinships = append(kinships, entities.Kinship{ID: m.ID, Name: m.Name})
	}
	return kinships, nil
}

func (r *GuardianRepository) FindLink(ctx context.Context, studentID, representativeID uint) (*entities.GuardianLink, error) {
	var model GuardianLinkModel

	err := dbFromContext(ctx, r.db).
		Preload("Representative").
		Preload("Kinship").
		Where("alumno_id = ? AND representante_id = ?", studentID, representativeID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toGuardianLink(&model), nil
}

func (r *GuardianRepository) ListByStudent(ctx context.Context, studentID uint) ([]*entities.GuardianLink, error) {
	var models []*GuardianLinkModel

	err := dbFromContext(ctx, r.db).
		Preload("Representative").
		Preload("Kinship").
		Where("alumno_id = ?", studentID).
		Order("principal DESC, id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	links := make([]*entities.GuardianLink, 0, len(models))
	for _, m := range models {
		links = append(links, toGuardianLink(m))
	}
	return links, nil
}

func (r *GuardianRepository) CreateLink(ctx context.Context, link *entities.GuardianLink) error {
	model := &GuardianLinkModel{
		StudentID:        link.StudentID,
		RepresentativeID: link.RepresentativeID,
		KinshipID:        link.KinshipID,
		Principal:        link.Principal,
	}

	if err := dbFromContext(ctx, r.db).Omit("Student", "Representative", "Kinship").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrGuardianLinkExists
		}
		return err
	}

	link.ID = model.ID
	link.CreatedAt = model.CreatedAt
	return nil
}

func (r *GuardianRepository) ClearPrincipal(ctx context.Context, studentID uint) error {
	return dbFromContext(ctx, r.db).
		Model(&GuardianLinkModel{}).
		Where("alumno_id = ? AND principal = ?", studentID, true).
		Update("principal", false).Error
}

func (r *GuardianRepository) DeleteLink(ctx context.Context, studentID, representativeID uint) (bool, error) {
	result := dbFromContext(ctx, r.db).
		Where("alumno_id = ? AND representante_id = ?", studentID, representativeID).
		Delete(&GuardianLinkModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func toGuardianLink(model *GuardianLinkModel) *entities.GuardianLink {
	link := &entities.GuardianLink{
		ID:               model.ID,
		StudentID:        model.StudentID,
		RepresentativeID: model.RepresentativeID,
		KinshipID:        model.KinshipID,
		Principal:        model.Principal,
		CreatedAt:        model.CreatedAt,
	}
	if model.Representative != nil {
		link.RepresentativeName = model.Representative.Name
		if model.Representative.LastName != "" {
			link.RepresentativeName += " " + model.Representative.LastName
		}
	}
	if model.Kinship != nil {
		link.KinshipName = model.Kinship.Name
	}
	return link
}
