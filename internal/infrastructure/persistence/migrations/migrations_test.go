package migrations_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/persistence/migrations"
	"github.com/rafabene/orquesta-admin/internal/infrastructure/persistence/postgres"
)

func count(db *gorm.DB, model any, query string, args ...any) int64 {
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	Expect(q.Count(&n).Error).NotTo(HaveOccurred())
	return n
}

func findUser(db *gorm.DB, email string) postgres.UserModel {
	var user postgres.UserModel
	Expect(db.Where("email = ?", email).First(&user).Error).NotTo(HaveOccurred())
	return user
}

func roleID(db *gorm.DB, name string) uint {
	var role postgres.RoleModel
	Expect(db.Where("LOWER(nombre) = LOWER(?)", name).First(&role).Error).NotTo(HaveOccurred())
	return role.ID
}

var _ = Describe("Runner", func() {
	var (
		ctx    context.Context
		db     *gorm.DB
		runner func(steps ...migrations.Step) *migrations.Runner
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = newTestDB()
		runner = func(steps ...migrations.Step) *migrations.Runner {
			return migrations.NewRunner(db, newTestLogger(), steps...)
		}
	})

	ok := func(applied *[]string, name string) migrations.Step {
		return migrations.Step{
			Name:   name,
			Target: "t",
			Apply: func(context.Context, *gorm.DB) error {
				*applied = append(*applied, name)
				return nil
			},
		}
	}

	It("continua após falha de passo recuperável", func() {
		var applied []string
		boom := errors.New("boom")

		report, err := runner(
			ok(&applied, "first"),
			migrations.Step{
				Name:   "broken",
				Target: "usuario.nivel_acceso",
				Apply:  func(context.Context, *gorm.DB) error { return boom },
			},
			ok(&applied, "last"),
		).Run(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(applied).To(Equal([]string{"first", "last"}))
		Expect(report.Executed).To(Equal(3))
		Expect(report.OK()).To(BeFalse())
		Expect(report.Failures).To(HaveLen(1))
		Expect(report.Failures[0].Step).To(Equal("broken"))
		Expect(report.Failures[0].Target).To(Equal("usuario.nivel_acceso"))
		Expect(errors.Is(report.Failures[0], boom)).To(BeTrue())
	})

	It("aborta quando um passo fundacional falha", func() {
		var applied []string

		_, err := runner(
			ok(&applied, "first"),
			migrations.Step{
				Name:         "create_table",
				Target:       "rol",
				Foundational: true,
				Apply:        func(context.Context, *gorm.DB) error { return errors.New("disk full") },
			},
			ok(&applied, "never"),
		).Run(ctx)

		Expect(err).To(HaveOccurred())
		var stepErr *migrations.StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Step).To(Equal("create_table"))
		Expect(stepErr.Target).To(Equal("rol"))
		Expect(applied).To(Equal([]string{"first"}))
	})

	It("não executa nada com contexto cancelado", func() {
		var applied []string
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := runner(ok(&applied, "first")).Run(cancelled)

		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(applied).To(BeEmpty())
	})
})

var _ = Describe("DefaultSteps", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		opts migrations.Options
	)

	migrate := func() *migrations.Report {
		report, err := migrations.Migrate(ctx, db, newTestLogger(), opts)
		Expect(err).NotTo(HaveOccurred())
		return report
	}

	BeforeEach(func() {
		ctx = context.Background()
		db = newTestDB()
		opts = defaultOptions()
	})

	Context("banco vazio", func() {
		It("cria o schema e semeia roles, parentescos e o administrador", func() {
			report := migrate()
			Expect(report.Failures).To(BeEmpty())

			for _, table := range []string{"rol", "usuario", "parentesco", "alumno", "representante", "alumno_representante"} {
				Expect(db.Migrator().HasTable(table)).To(BeTrue(), table)
			}
			Expect(db.Migrator().HasIndex(&postgres.GuardianLinkModel{}, "uq_alumno_representante")).To(BeTrue())
			Expect(db.Migrator().HasIndex(&postgres.GuardianLinkModel{}, "idx_alumno_representante_representante")).To(BeTrue())

			Expect(count(db, &postgres.RoleModel{}, "")).To(Equal(int64(4)))
			Expect(count(db, &postgres.KinshipModel{}, "")).To(Equal(int64(len(entities.DefaultKinships))))
			Expect(count(db, &postgres.UserModel{}, "")).To(Equal(int64(1)))

			admin := findUser(db, "admin@local")
			Expect(admin.Active).To(BeTrue())
			Expect(admin.AccessLevel).NotTo(BeNil())
			Expect(*admin.AccessLevel).To(Equal(0))
			Expect(admin.RoleID).NotTo(BeNil())
			Expect(*admin.RoleID).To(Equal(roleID(db, entities.RoleAdministrator)))
			Expect(admin.PasswordHash).NotTo(Equal("admin123"))

			var role postgres.RoleModel
			Expect(db.First(&role, *admin.RoleID).Error).NotTo(HaveOccurred())
			Expect(entities.ParsePermissionData(role.Permisos).Permissions).To(Equal([]string{"*"}))
		})

		It("é idempotente", func() {
			migrate()
			report := migrate()

			Expect(report.Failures).To(BeEmpty())
			Expect(count(db, &postgres.RoleModel{}, "")).To(Equal(int64(4)))
			Expect(count(db, &postgres.KinshipModel{}, "")).To(Equal(int64(len(entities.DefaultKinships))))
			Expect(count(db, &postgres.UserModel{}, "")).To(Equal(int64(1)))
		})

		It("semeia usuários de demonstração quando habilitado", func() {
			opts.SeedDemoUsers = true
			migrate()

			Expect(count(db, &postgres.UserModel{}, "")).To(Equal(int64(4)))

			coordinator := findUser(db, "coordinador@local")
			Expect(*coordinator.AccessLevel).To(Equal(1))
			Expect(*coordinator.RoleID).To(Equal(roleID(db, entities.RoleCoordinator)))

			profesor := findUser(db, "profesor@local")
			Expect(*profesor.AccessLevel).To(Equal(2))

			representative := findUser(db, "representante@local")
			Expect(*representative.RoleID).To(Equal(roleID(db, entities.RoleRepresentative)))
		})

		It("registra falha sem hasher e segue com o restante", func() {
			opts.Hasher = nil
			report := migrate()

			Expect(report.Failures).To(HaveLen(1))
			Expect(report.Failures[0].Target).To(Equal("usuario"))
			Expect(count(db, &postgres.UserModel{}, "")).To(BeZero())
			Expect(db.Migrator().HasTable("alumno_representante")).To(BeTrue())
		})
	})

	Context("backfill de nivel_acceso", func() {
		BeforeEach(func() {
			migrate()
		})

		insertUser := func(email string, roleID *uint, level *int) {
			Expect(db.Create(&postgres.UserModel{
				Name:         email,
				Email:        email,
				PasswordHash: "x",
				RoleID:       roleID,
				Active:       true,
				AccessLevel:  level,
			}).Error).NotTo(HaveOccurred())
		}

		insertRole := func(name, permisos string) *uint {
			role := &postgres.RoleModel{Name: name, Permisos: datatypes.JSON(permisos)}
			Expect(db.Create(role).Error).NotTo(HaveOccurred())
			return &role.ID
		}

		It("aplica override, heurística de nome e padrão, sem tocar valores existentes", func() {
			override := insertRole("coordinacion general", `{"permisos":["alumnos:read"],"nivel_acceso":1}`)
			superAdmin := insertRole("SuperAdmin", `[]`)
			overriddenAdmin := insertRole("admin restringido", `{"permissions":[],"access_level":2}`)
			profesor := roleID(db, entities.RoleTeacher)
			two := 2

			insertUser("override@local", override, nil)
			insertUser("super@local", superAdmin, nil)
			insertUser("restricted@local", overriddenAdmin, nil)
			insertUser("profe@local", &profesor, nil)
			insertUser("norole@local", nil, nil)
			insertUser("kept@local", superAdmin, &two)

			report := migrate()
			Expect(report.Failures).To(BeEmpty())

			Expect(*findUser(db, "override@local").AccessLevel).To(Equal(1))
			Expect(*findUser(db, "super@local").AccessLevel).To(Equal(0))
			Expect(*findUser(db, "restricted@local").AccessLevel).To(Equal(2))
			Expect(*findUser(db, "profe@local").AccessLevel).To(Equal(2))
			Expect(*findUser(db, "norole@local").AccessLevel).To(Equal(2))
			Expect(*findUser(db, "kept@local").AccessLevel).To(Equal(2))
		})

		It("trata dados de permissão ilegíveis como nenhum privilégio", func() {
			broken := insertRole("roto", `not json`)
			insertUser("broken@local", broken, nil)

			report := migrate()
			Expect(report.Failures).To(BeEmpty())
			Expect(*findUser(db, "broken@local").AccessLevel).To(Equal(2))
		})

		It("usa o padrão configurado para roles administrativos", func() {
			opts.AdminRule = entities.NewAdminRoleRule("direct")
			director := insertRole("Directora", `[]`)
			insertUser("director@local", director, nil)

			migrate()
			Expect(*findUser(db, "director@local").AccessLevel).To(Equal(0))
		})
	})

	Context("banco legado", func() {
		BeforeEach(func() {
			for _, stmt := range []string{
				`CREATE TABLE rol (id INTEGER PRIMARY KEY AUTOINCREMENT, nombre TEXT NOT NULL, permisos TEXT)`,
				`INSERT INTO rol (nombre, permisos) VALUES ('profesor', '["alumnos:read"]'), ('sin datos', NULL)`,
				`CREATE TABLE usuario (id INTEGER PRIMARY KEY AUTOINCREMENT, nombre TEXT NOT NULL, email TEXT NOT NULL, password_hash TEXT NOT NULL, rol TEXT)`,
				`INSERT INTO usuario (nombre, email, password_hash, rol) VALUES
					('Ana', 'ana@local', 'x', 'Profesor'),
					('Beto', 'beto@local', 'x', 'Director Admin'),
					('Caro', 'caro@local', 'x', NULL)`,
				`CREATE TABLE alumno (id INTEGER PRIMARY KEY AUTOINCREMENT, nombre TEXT NOT NULL, apellido TEXT NOT NULL DEFAULT '', created_at DATETIME, representante_id INTEGER)`,
				`CREATE TABLE representante (id INTEGER PRIMARY KEY AUTOINCREMENT, nombre TEXT NOT NULL, apellido TEXT NOT NULL DEFAULT '', telefono TEXT, created_at DATETIME)`,
				`INSERT INTO representante (nombre) VALUES ('Rosa'), ('Raul')`,
				`INSERT INTO alumno (nombre, representante_id) VALUES ('Luis', 1), ('Marta', 2), ('Nico', NULL), ('Olga', 99)`,
			} {
				Expect(db.Exec(stmt).Error).NotTo(HaveOccurred(), stmt)
			}
		})

		It("adiciona colunas, normaliza permisos e reconcilia roles de texto", func() {
			report := migrate()
			Expect(report.Failures).To(BeEmpty())

			Expect(db.Migrator().HasColumn(&postgres.UserModel{}, "nivel_acceso")).To(BeTrue())
			Expect(count(db, &postgres.RoleModel{}, "permisos IS NULL")).To(BeZero())

			// rol existente não é sobrescrito pelo seed
			var profesor postgres.RoleModel
			Expect(db.Where("nombre = ?", "profesor").First(&profesor).Error).NotTo(HaveOccurred())
			Expect(entities.ParsePermissionData(profesor.Permisos).Permissions).To(Equal([]string{"alumnos:read"}))

			ana := findUser(db, "ana@local")
			Expect(*ana.RoleID).To(Equal(profesor.ID))
			Expect(*ana.AccessLevel).To(Equal(2))
			Expect(ana.Active).To(BeTrue())

			beto := findUser(db, "beto@local")
			Expect(*beto.RoleID).To(Equal(roleID(db, "Director Admin")))
			Expect(*beto.AccessLevel).To(Equal(0))

			caro := findUser(db, "caro@local")
			Expect(caro.RoleID).To(BeNil())
			Expect(*caro.AccessLevel).To(Equal(2))
		})

		It("migra representante_id para a tabela ponte como principal", func() {
			report := migrate()
			Expect(report.Failures).To(BeEmpty())

			var links []postgres.GuardianLinkModel
			Expect(db.Order("alumno_id").Find(&links).Error).NotTo(HaveOccurred())
			Expect(links).To(HaveLen(2))
			Expect(links[0].StudentID).To(Equal(uint(1)))
			Expect(links[0].RepresentativeID).To(Equal(uint(1)))
			Expect(links[0].Principal).To(BeTrue())
			Expect(links[1].StudentID).To(Equal(uint(2)))
			Expect(links[1].Principal).To(BeTrue())

			migrate()
			Expect(count(db, &postgres.GuardianLinkModel{}, "")).To(Equal(int64(2)))
		})

		It("não cria segundo principal para alumno que já tem um", func() {
			Expect(db.Exec(`CREATE TABLE alumno_representante (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				alumno_id INTEGER NOT NULL,
				representante_id INTEGER NOT NULL,
				parentesco_id INTEGER,
				principal NUMERIC NOT NULL DEFAULT false,
				created_at DATETIME)`).Error).NotTo(HaveOccurred())
			Expect(db.Exec(`INSERT INTO alumno_representante (alumno_id, representante_id, principal) VALUES (1, 2, true)`).Error).
				NotTo(HaveOccurred())

			migrate()

			Expect(count(db, &postgres.GuardianLinkModel{}, "alumno_id = ?", 1)).To(Equal(int64(2)))
			Expect(count(db, &postgres.GuardianLinkModel{}, "alumno_id = ? AND principal = ?", 1, true)).To(Equal(int64(1)))
		})
	})

	Context("tabela ponte com duplicatas", func() {
		BeforeEach(func() {
			for _, stmt := range []string{
				`CREATE TABLE alumno_representante (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					alumno_id INTEGER NOT NULL,
					representante_id INTEGER NOT NULL,
					parentesco_id INTEGER,
					principal NUMERIC NOT NULL DEFAULT false,
					created_at DATETIME)`,
				`INSERT INTO alumno_representante (alumno_id, representante_id) VALUES (1, 1), (1, 1), (1, 2), (2, 1), (1, 2), (1, 1)`,
			} {
				Expect(db.Exec(stmt).Error).NotTo(HaveOccurred())
			}
		})

		It("mantém a linha de menor id de cada par e cria o índice único", func() {
			report := migrate()
			Expect(report.Failures).To(BeEmpty())

			var ids []uint
			Expect(db.Model(&postgres.GuardianLinkModel{}).Order("id").Pluck("id", &ids).Error).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]uint{1, 3, 4}))
			Expect(db.Migrator().HasIndex(&postgres.GuardianLinkModel{}, "uq_alumno_representante")).To(BeTrue())

			err := db.Exec(`INSERT INTO alumno_representante (alumno_id, representante_id) VALUES (1, 1)`).Error
			Expect(err).To(HaveOccurred())
		})
	})
})
