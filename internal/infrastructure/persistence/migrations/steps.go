package migrations

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/persistence/postgres"
)

const (
	guardianUniqueIndex         = "uq_alumno_representante"
	guardianRepresentativeIndex = "idx_alumno_representante_representante"
)

// Options parametriza seeds e backfills
type Options struct {
	AdminRule     entities.AdminRoleRule
	AdminEmail    string
	AdminPassword string
	SeedDemoUsers bool
	DemoPassword  string
	Hasher        ports.PasswordHasher
	Now           func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// DefaultSteps retorna a sequência completa, na ordem em que deve rodar
func DefaultSteps(opts Options, logger ports.Logger) []Step {
	return []Step{
		{
			Name:         "create_table",
			Target:       "rol",
			Foundational: true,
			Apply:        ensureTable(&postgres.RoleModel{}),
		},
		{
			Name:   "add_columns",
			Target: "rol.permisos",
			Apply:  ensureRolePermissions,
		},
		{
			Name:         "create_table",
			Target:       "usuario",
			Foundational: true,
			Apply:        ensureTable(&postgres.UserModel{}),
		},
		{
			Name:   "add_columns",
			Target: "usuario.rol_id,activo,nivel_acceso",
			Apply:  ensureColumns(&postgres.UserModel{}, "RoleID", "Active", "AccessLevel", "CreatedAt", "UpdatedAt"),
		},
		{
			Name:   "seed",
			Target: "rol",
			Apply:  seedRoles(logger),
		},
		{
			Name:   "reconcile_legacy",
			Target: "usuario.rol",
			Apply:  reconcileLegacyUserRoles(logger),
		},
		{
			Name:   "backfill",
			Target: "usuario.nivel_acceso",
			Apply:  backfillAccessLevels(opts.AdminRule, logger),
		},
		{
			Name:   "seed",
			Target: "usuario",
			Apply:  seedUsers(opts, logger),
		},
		{
			Name:         "create_table",
			Target:       "parentesco",
			Foundational: true,
			Apply:        ensureTable(&postgres.KinshipModel{}),
		},
		{
			Name:   "seed",
			Target: "parentesco",
			Apply:  seedKinships(logger),
		},
		{
			Name:         "create_table",
			Target:       "alumno",
			Foundational: true,
			Apply:        ensureTable(&postgres.StudentModel{}),
		},
		{
			Name:         "create_table",
			Target:       "representante",
			Foundational: true,
			Apply:        ensureTable(&postgres.RepresentativeModel{}),
		},
		{
			Name:         "create_table",
			Target:       "alumno_representante",
			Foundational: true,
			Apply:        ensureTable(&postgres.GuardianLinkModel{}),
		},
		{
			Name:   "migrate_legacy",
			Target: "alumno.representante_id",
			Apply:  migrateLegacyGuardians(opts.now, logger),
		},
		{
			Name:   "create_unique_index",
			Target: guardianUniqueIndex,
			Apply:  ensureGuardianUniqueness(logger),
		},
		{
			Name:   "create_index",
			Target: guardianRepresentativeIndex,
			Apply:  ensureIndex(&postgres.GuardianLinkModel{}, guardianRepresentativeIndex),
		},
		{
			Name:   "create_foreign_key",
			Target: "alumno_representante.alumno_id",
			Apply:  ensureForeignKey(&postgres.GuardianLinkModel{}, "Student"),
		},
		{
			Name:   "create_foreign_key",
			Target: "alumno_representante.representante_id",
			Apply:  ensureForeignKey(&postgres.GuardianLinkModel{}, "Representative"),
		},
		{
			Name:   "create_foreign_key",
			Target: "alumno_representante.parentesco_id",
			Apply:  ensureForeignKey(&postgres.GuardianLinkModel{}, "Kinship"),
		},
	}
}

// ensureRolePermissions adiciona rol.permisos e normaliza linhas antigas sem dados
func ensureRolePermissions(ctx context.Context, db *gorm.DB) error {
	if err := ensureColumns(&postgres.RoleModel{}, "Permisos", "CreatedAt", "UpdatedAt")(ctx, db); err != nil {
		return err
	}
	return db.Exec("UPDATE rol SET permisos = '[]' WHERE permisos IS NULL").Error
}
