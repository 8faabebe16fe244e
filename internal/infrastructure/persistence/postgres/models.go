package postgres

import (
	"time"

	"gorm.io/datatypes"
)

// RoleModel é o model GORM para a tabela rol
type RoleModel struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"column:nombre;type:varchar(100);uniqueIndex:uq_rol_nombre;not null"`
	Permisos  datatypes.JSON `gorm:"column:permisos;not null;default:'[]'"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (RoleModel) TableName() string {
	return "rol"
}

// UserModel é o model GORM para a tabela usuario
type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"column:nombre;type:varchar(255);not null"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex:uq_usuario_email;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`
	RoleID       *uint  `gorm:"column:rol_id;index:idx_usuario_rol"`
	Active       bool   `gorm:"column:activo;not null;default:true"`
	// AccessLevel é anulável para o backfill detectar linhas pendentes
	AccessLevel *int      `gorm:"column:nivel_acceso"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (UserModel) TableName() string {
	return "usuario"
}

// KinshipModel é o model GORM para a tabela parentesco
type KinshipModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"column:nombre;type:varchar(100);uniqueIndex:uq_parentesco_nombre;not null"`
}

func (KinshipModel) TableName() string {
	return "parentesco"
}

// StudentModel é o model GORM mínimo da tabela alumno
type StudentModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"column:nombre;type:varchar(255);not null"`
	LastName  string    `gorm:"column:apellido;type:varchar(255);not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (StudentModel) TableName() string {
	return "alumno"
}

// RepresentativeModel é o model GORM mínimo da tabela representante
type RepresentativeModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"column:nombre;type:varchar(255);not null"`
	LastName  string    `gorm:"column:apellido;type:varchar(255);not null;default:''"`
	Phone     *string   `gorm:"column:telefono;type:varchar(50)"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (RepresentativeModel) TableName() string {
	return "representante"
}

// GuardianLinkModel é a tabela ponte alumno_representante
type GuardianLinkModel struct {
	ID               uint      `gorm:"primaryKey"`
	StudentID        uint      `gorm:"column:alumno_id;not null;uniqueIndex:uq_alumno_representante,priority:1"`
	RepresentativeID uint      `gorm:"column:representante_id;not null;uniqueIndex:uq_alumno_representante,priority:2;index:idx_alumno_representante_representante"`
	KinshipID        *uint     `gorm:"column:parentesco_id"`
	Principal        bool      `gorm:"column:principal;not null;default:false"`
	CreatedAt        time.Time `gorm:"column:created_at"`

	Student        *StudentModel        `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Representative *RepresentativeModel `gorm:"foreignKey:RepresentativeID;constraint:OnDelete:CASCADE"`
	Kinship        *KinshipModel        `gorm:"foreignKey:KinshipID;constraint:OnDelete:SET NULL"`
}

func (GuardianLinkModel) TableName() string {
	return "alumno_representante"
}
