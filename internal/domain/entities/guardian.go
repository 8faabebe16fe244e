package entities

import "time"

// Kinship é um tipo de parentesco (mãe, pai, avó...)
type Kinship struct {
	ID   uint
	Name string
}

// DefaultKinships são semeados uma única vez se ausentes
var DefaultKinships = []string{"Madre", "Padre", "Abuelo(a)", "Tío(a)", "Hermano(a)", "Otro"}

// GuardianLink liga um alumno a um representante
type GuardianLink struct {
	ID                 uint
	StudentID          uint
	RepresentativeID   uint
	RepresentativeName string
	KinshipID          *uint
	KinshipName        string
	// Principal marca o responsável principal do alumno (no máximo um por alumno)
	Principal bool
	CreatedAt time.Time
}
