package dto

import (
	"time"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
)

// LinkRepresentativeRequest vincula um representante ao alumno da rota
type LinkRepresentativeRequest struct {
	RepresentativeID uint  `json:"representative_id" binding:"required"`
	KinshipID        *uint `json:"kinship_id"`
	Principal        bool  `json:"principal"`
}

// GuardianLinkResponse é uma linha da tabela ponte alumno_representante
type GuardianLinkResponse struct {
	ID                 uint      `json:"id"`
	StudentID          uint      `json:"student_id"`
	RepresentativeID   uint      `json:"representative_id"`
	RepresentativeName string    `json:"representative_name"`
	KinshipID          *uint     `json:"kinship_id,omitempty"`
	KinshipName        string    `json:"kinship_name,omitempty"`
	Principal          bool      `json:"principal"`
	CreatedAt          time.Time `json:"created_at"`
}

// KinshipResponse é um valor de parentesco
type KinshipResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func ToGuardianLinkResponse(link *entities.GuardianLink) GuardianLinkResponse {
	return GuardianLinkResponse{
		ID:                 link.ID,
		StudentID:          link.StudentID,
		RepresentativeID:   link.RepresentativeID,
		RepresentativeName: link.RepresentativeName,
		KinshipID:          link.KinshipID,
		KinshipName:        link.KinshipName,
		Principal:          link.Principal,
		CreatedAt:          link.CreatedAt,
	}
}

func ToGuardianLinkResponses(links []*entities.GuardianLink) []GuardianLinkResponse {
	responses := make([]GuardianLinkResponse, len(links))
	for i, link := range links {
		responses[i] = ToGuardianLinkResponse(link)
	}
	return responses
}

func ToKinshipResponses(kinships []entities.Kinship) []KinshipResponse {
	responses := make([]KinshipResponse, len(kinships))
	for i, k := range kinships {
		responses[i] = KinshipResponse{ID: k.ID, Name: k.Name}
	}
	return responses
}
