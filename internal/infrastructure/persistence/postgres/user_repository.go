package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/domain/repositories"
	"github.com/rafabene/orquesta-admin/internal/domain/valueobjects"
)

// UserRepository implementa repositories.UserRepository
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	model := r.toModel(user)

	db := dbFromContext(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrEmailAlreadyExists
		}
		return err
	}

	// activo tem default true no banco; o GORM omite o valor zero no INSERT
	if !user.Active {
		if err := db.Model(model).Update("activo", false).Error; err != nil {
			return err
		}
	}

	user.ID = model.ID
	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*entities.User, error) {
	var model UserModel

	db := dbFromContext(ctx, r.db)
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var model UserModel

	db := dbFromContext(ctx, r.db)
	if err := db.Where("LOWER(email) = LOWER(?)", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model)
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	model := r.toModel(user)

	db := dbFromContext(ctx, r.db)
	return db.Select("*").Omit("created_at").Updates(model).Error
}

func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	var models []*UserModel

	db := dbFromContext(ctx, r.db)
	query := db.Model(&UserModel{})

	// Aplicar filtros
	if filters.RoleID != nil {
		query = query.Where("rol_id = ?", *filters.RoleID)
	}
	if filters.Active != nil {
		query = query.Where("activo = ?", *filters.Active)
	}

	// Paginação
	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	offset := (page - 1) * pageSize
	query = query.Order("id").Limit(pageSize).Offset(offset)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.toEntities(models)
}

func (r *UserRepository) ListIDsByRole(ctx context.Context, roleID uint) ([]uint, error) {
	var ids []uint

	db := dbFromContext(ctx, r.db)
	if err := db.Model(&UserModel{}).Where("rol_id = ?", roleID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Conversores
func (r *UserRepository) toModel(user *entities.User) *UserModel {
	var level *int
	if user.AccessLevel != nil {
		v := int(*user.AccessLevel)
		level = &v
	}

	return &UserModel{
		ID:           user.ID,
		Email:        user.Email.String(),
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		RoleID:       user.RoleID,
		Active:       user.Active,
		AccessLevel:  level,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func (r *UserRepository) toEntity(model *UserModel) (*entities.User, error) {
	email, err := valueobjects.NewEmail(model.Email)
	if err != nil {
		return nil, err
	}

	var level *entities.AccessLevel
	if model.AccessLevel != nil {
		// Valor fora da faixa vira o nível mais restritivo
		v, _ := entities.NewAccessLevel(*model.AccessLevel)
		level = &v
	}

	return &entities.User{
		ID:           model.ID,
		Email:        email,
		Name:         model.Name,
		PasswordHash: model.PasswordHash,
		RoleID:       model.RoleID,
		Active:       model.Active,
		AccessLevel:  level,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}, nil
}

func (r *UserRepository) toEntities(models []*UserModel) ([]*entities.User, error) {
	entities := make([]*entities.User, 0, len(models))

	for _, model := range models {
		entity, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}

	return entities, nil
}
