package postgres

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/domain/repositories"
)

// RoleRepository implementa repositories.RoleRepository
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository cria um novo RoleRepository
func NewRoleRepository(db *gorm.DB) repositories.RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *entities.Role) error {
	model, err := toRoleModel(role)
	if err != nil {
		return err
	}

	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrRoleAlreadyExists
		}
		return err
	}

	role.ID = model.ID
	role.CreatedAt = model.CreatedAt
	role.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id uint) (*entities.Role, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*entities.Role, error) {
	return r.findOne(ctx, "LOWER(nombre) = LOWER(?)", name)
}

func (r *RoleRepository) findOne(ctx context.Context, query string, args ...any) (*entities.Role, error) {
	var model RoleModel

	if err := dbFromContext(ctx, r.db).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toRoleEntity(&model), nil
}

func (r *RoleRepository) Update(ctx context.Context, role *entities.Role) error {
	model, err := toRoleModel(role)
	if err != nil {
		return err
	}

	return dbFromContext(ctx, r.db).
		Model(&RoleModel{ID: role.ID}).
		Updates(map[string]any{"nombre": model.Name, "permisos": model.Permisos}).Error
}

func (r *RoleRepository) List(ctx context.Context) ([]*entities.Role, error) {
	var models []*RoleModel

	if err := dbFromContext(ctx, r.db).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	roles := make([]*entities.Role, 0, len(models))
	for _, m := range models {
		roles = append(roles, toRoleEntity(m))
	}
	return roles, nil
}

func toRoleModel(role *entities.Role) (*RoleModel, error) {
	raw, err := entities.EncodePermissionData(role.PermissionData())
	if err != nil {
		return nil, err
	}

	return &RoleModel{
		ID:        role.ID,
		Name:      role.Name,
		Permisos:  datatypes.JSON(raw),
		CreatedAt: role.CreatedAt,
		UpdatedAt: role.UpdatedAt,
	}, nil
}

// toRoleEntity nunca falha: dados de permissão ilegíveis resultam em nenhum privilégio
func toRoleEntity(model *RoleModel) *entities.Role {
	data := entities.ParsePermissionData(model.Permisos)

	return &entities.Role{
		ID:                  model.ID,
		Name:                model.Name,
		Permissions:         data.Permissions,
		AccessLevelOverride: data.Override,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}
