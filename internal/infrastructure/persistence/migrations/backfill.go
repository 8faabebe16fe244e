package migrations

import (
	"context"

	"gorm.io/gorm"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/persistence/postgres"
)

// pendingAccessLevel é uma linha de usuario sem nivel_acceso, com o rol associado
type pendingAccessLevel struct {
	ID       uint
	RoleName *string
	// Permisos é lido cru: linhas antigas podem ter NULL ou JSON inválido
	Permisos []byte
}

// backfillAccessLevels preenche nivel_acceso apenas onde está ausente, usando as
// mesmas regras que valem para novos usuários. Valores já definidos nunca mudam.
func backfillAccessLevels(rule entities.AdminRoleRule, logger ports.Logger) StepFunc {
	return func(_ context.Context, db *gorm.DB) error {
		var rows []pendingAccessLevel
		err := db.Table("usuario AS u").
			Select("u.id AS id, r.nombre AS role_name, r.permisos AS permisos").
			Joins("LEFT JOIN rol r ON r.id = u.rol_id").
			Where("u.nivel_acceso IS NULL").
			Scan(&rows).Error
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		byLevel := make(map[entities.AccessLevel][]uint)
		for _, row := range rows {
			var roleName string
			if row.RoleName != nil {
				roleName = *row.RoleName
			}
			data := entities.ParsePermissionData(row.Permisos)
			level := entities.ResolveAccessLevel(roleName, data.Override, rule)
			byLevel[level] = append(byLevel[level], row.ID)
		}

		return db.Transaction(func(tx *gorm.DB) error {
			for level, ids := range byLevel {
				result := tx.Model(&postgres.UserModel{}).
					Where("id IN ? AND nivel_acceso IS NULL", ids).
					Update("nivel_acceso", int(level))
				if result.Error != nil {
					return result.Error
				}
				logger.Info("backfilled access level", "level", int(level), "users", result.RowsAffected)
			}
			return nil
		})
	}
}
