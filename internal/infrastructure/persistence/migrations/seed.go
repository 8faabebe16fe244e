package migrations

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/persistence/postgres"
)

var errHasherRequired = errors.New("password hasher is required to seed users")

// seedUser é uma conta semeada
type seedUser struct {
	Email    string
	Name     string
	Role     string
	Level    entities.AccessLevel
	Password string
}

// seedRoles insere os roles padrão que faltam. Roles existentes nunca são alterados.
func seedRoles(logger ports.Logger) StepFunc {
	return func(_ context.Context, db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			for _, role := range entities.DefaultRoles {
				exists, err := rowExists(tx, &postgres.RoleModel{}, "LOWER(nombre) = LOWER(?)", role.Name)
				if err != nil {
					return err
				}
				if exists {
					continue
				}

				raw, err := entities.EncodePermissionData(role.PermissionData())
				if err != nil {
					return err
				}
				if err := tx.Create(&postgres.RoleModel{Name: role.Name, Permisos: datatypes.JSON(raw)}).Error; err != nil {
					return err
				}
				logger.Info("seeded role", "role", role.Name)
			}
			return nil
		})
	}
}

// seedKinships insere os parentescos padrão que faltam
func seedKinships(logger ports.Logger) StepFunc {
	return func(_ context.Context, db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			for _, name := range entities.DefaultKinships {
				exists, err := rowExists(tx, &postgres.KinshipModel{}, "nombre = ?", name)
				if err != nil {
					return err
				}
				if exists {
					continue
				}
				if err := tx.Create(&postgres.KinshipModel{Name: name}).Error; err != nil {
					return err
				}
				logger.Debug("seeded kinship", "kinship", name)
			}
			return nil
		})
	}
}

// seedUsers garante a conta administrativa inicial e, opcionalmente, as contas de demonstração.
// Contas existentes (pelo email) não são tocadas.
func seedUsers(opts Options, logger ports.Logger) StepFunc {
	return func(_ context.Context, db *gorm.DB) error {
		if opts.Hasher == nil {
			return errHasherRequired
		}

		users := []seedUser{{
			Email:    opts.AdminEmail,
			Name:     "Administrador",
			Role:     entities.RoleAdministrator,
			Level:    entities.AccessLevelFull,
			Password: opts.AdminPassword,
		}}
		if opts.SeedDemoUsers {
			users = append(users,
				seedUser{Email: "coordinador@local", Name: "Coordinador Demo", Role: entities.RoleCoordinator, Level: entities.AccessLevelConditional, Password: opts.DemoPassword},
				seedUser{Email: "profesor@local", Name: "Profesor Demo", Role: entities.RoleTeacher, Level: entities.AccessLevelStandard, Password: opts.DemoPassword},
				seedUser{Email: "representante@local", Name: "Representante Demo", Role: entities.RoleRepresentative, Level: entities.AccessLevelStandard, Password: opts.DemoPassword},
			)
		}

		return db.Transaction(func(tx *gorm.DB) error {
			for _, u := range users {
				email := strings.ToLower(strings.TrimSpace(u.Email))
				if email == "" {
					continue
				}

				exists, err := rowExists(tx, &postgres.UserModel{}, "LOWER(email) = ?", email)
				if err != nil {
					return err
				}
				if exists {
					continue
				}

				if u.Password == "" {
					logger.Warn("skipping seed user without password", "email", email)
					continue
				}
				hash, err := opts.Hasher.Hash([]byte(u.Password))
				if err != nil {
					return err
				}

				roleID, err := roleIDByName(tx, u.Role)
				if err != nil {
					return err
				}

				level := int(u.Level)
				model := &postgres.UserModel{
					Name:         u.Name,
					Email:        email,
					PasswordHash: string(hash),
					RoleID:       roleID,
					Active:       true,
					AccessLevel:  &level,
				}
				if err := tx.Create(model).Error; err != nil {
					return err
				}
				logger.Info("seeded user", "email", email, "role", u.Role)
			}
			return nil
		})
	}
}

func rowExists(db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// roleIDByName retorna nil se o rol não existir (seed de roles pode ter falhado)
func roleIDByName(db *gorm.DB, name string) (*uint, error) {
	var ids []uint
	if err := db.Model(&postgres.RoleModel{}).Where("LOWER(nombre) = LOWER(?)", name).Limit(1).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &ids[0], nil
}
