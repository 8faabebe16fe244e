package migrations

import (
	"context"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/persistence/postgres"
)

// reconcileLegacyUserRoles converte a antiga coluna de texto usuario.rol em rol_id.
// Nomes sem rol correspondente viram roles sem permissões.
func reconcileLegacyUserRoles(logger ports.Logger) StepFunc {
	return func(_ context.Context, db *gorm.DB) error {
		if !db.Migrator().HasColumn(&postgres.UserModel{}, "rol") {
			return nil
		}

		var names []string
		err := db.Model(&postgres.UserModel{}).
			Distinct("rol").
			Where("rol_id IS NULL AND rol IS NOT NULL AND TRIM(rol) <> ''").
			Pluck("rol", &names).Error
		if err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}

		return db.Transaction(func(tx *gorm.DB) error {
			seen := make(map[string]struct{}, len(names))
			for _, name := range names {
				name = strings.TrimSpace(name)
				key := strings.ToLower(name)
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}

				exists, err := rowExists(tx, &postgres.RoleModel{}, "LOWER(nombre) = ?", key)
				if err != nil {
					return err
				}
				if exists {
					continue
				}
				if err := tx.Create(&postgres.RoleModel{Name: name, Permisos: datatypes.JSON("[]")}).Error; err != nil {
					return err
				}
				logger.Info("created role from legacy user data", "role", name)
			}

			result := tx.Exec(`UPDATE usuario SET rol_id = (
					SELECT r.id FROM rol r WHERE LOWER(r.nombre) = LOWER(TRIM(usuario.rol))
				)
				WHERE rol_id IS NULL AND rol IS NOT NULL AND TRIM(rol) <> ''`)
			if result.Error != nil {
				return result.Error
			}
			logger.Info("linked legacy users to roles", "users", result.RowsAffected)
			return nil
		})
	}
}

// legacyGuardianRef é um par vindo da antiga coluna alumno.representante_id
type legacyGuardianRef struct {
	StudentID        uint
	RepresentativeID uint
}

// migrateLegacyGuardians copia a antiga referência única alumno.representante_id para
// a tabela ponte. O vínculo migrado vira principal, salvo se o alumno já tiver um.
// Referências para representantes inexistentes são ignoradas.
func migrateLegacyGuardians(now func() time.Time, logger ports.Logger) StepFunc {
	return func(_ context.Context, db *gorm.DB) error {
		if !db.Migrator().HasColumn(&postgres.StudentModel{}, "representante_id") {
			return nil
		}

		var refs []legacyGuardianRef
		err := db.Table("alumno AS a").
			Select("a.id AS student_id, a.representante_id AS representative_id").
			Where("a.representante_id IS NOT NULL").
			Where("EXISTS (SELECT 1 FROM representante r WHERE r.id = a.representante_id)").
			Where(`NOT EXISTS (
				SELECT 1 FROM alumno_representante ar
				WHERE ar.alumno_id = a.id AND ar.representante_id = a.representante_id
			)`).
			Order("a.id").
			Scan(&refs).Error
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			return nil
		}

		var withPrincipal []uint
		if err := db.Model(&postgres.GuardianLinkModel{}).
			Where("principal = ?", true).
			Distinct("alumno_id").
			Pluck("alumno_id", &withPrincipal).Error; err != nil {
			return err
		}
		hasPrincipal := make(map[uint]bool, len(withPrincipal))
		for _, id := range withPrincipal {
			hasPrincipal[id] = true
		}

		at := now()
		links := make([]*postgres.GuardianLinkModel, 0, len(refs))
		for _, ref := range refs {
			principal := !hasPrincipal[ref.StudentID]
			hasPrincipal[ref.StudentID] = true
			links = append(links, &postgres.GuardianLinkModel{
				StudentID:        ref.StudentID,
				RepresentativeID: ref.RepresentativeID,
				Principal:        principal,
				CreatedAt:        at,
			})
		}

		if err := db.CreateInBatches(links, 100).Error; err != nil {
			return err
		}
		logger.Info("migrated legacy guardian references", "links", len(links))
		return nil
	}
}

// ensureGuardianUniqueness remove pares (alumno, representante) duplicados, mantendo
// a linha de menor id, e então cria o índice único. Só roda enquanto o índice não existe.
func ensureGuardianUniqueness(logger ports.Logger) StepFunc {
	return func(_ context.Context, db *gorm.DB) error {
		if db.Migrator().HasIndex(&postgres.GuardianLinkModel{}, guardianUniqueIndex) {
			return nil
		}

		return db.Transaction(func(tx *gorm.DB) error {
			result := tx.Exec(`DELETE FROM alumno_representante
				WHERE id NOT IN (
					SELECT MIN(id) FROM alumno_representante GROUP BY alumno_id, representante_id
				)`)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				logger.Warn("removed duplicate guardian links", "rows", result.RowsAffected)
			}

			return tx.Migrator().CreateIndex(&postgres.GuardianLinkModel{}, guardianUniqueIndex)
		})
	}
}
