package services_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/services"
)

var _ = Describe("GuardianService", func() {
	var (
		ctx     context.Context
		repo    *MockGuardianRepository
		uow     *fakeUnitOfWork
		service *services.GuardianService
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &MockGuardianRepository{}
		uow = &fakeUnitOfWork{}
		service = services.NewGuardianService(repo, uow, newTestLogger())
	})

	Describe("Link", func() {
		BeforeEach(func() {
			repo.On("StudentExists", mock.Anything, uint(1)).Return(true, nil)
			repo.On("RepresentativeExists", mock.Anything, uint(2)).Return(true, nil)
			repo.On("KinshipExists", mock.Anything, uint(1)).Return(true, nil)
		})

		It("principal desmarca o anterior antes de criar o vínculo", func() {
			created := &entities.GuardianLink{ID: 5, StudentID: 1, RepresentativeID: 2, RepresentativeName: "Rosa", Principal: true}
			repo.On("FindLink", mock.Anything, uint(1), uint(2)).Return(nil, nil).Once()
			repo.On("ClearPrincipal", mock.Anything, uint(1)).Return(nil)
			repo.On("CreateLink", mock.Anything, mock.Anything).Return(nil)
			repo.On("FindLink", mock.Anything, uint(1), uint(2)).Return(created, nil).Once()

			link, err := service.Link(ctx, services.LinkInput{StudentID: 1, RepresentativeID: 2, KinshipID: uintPtr(1), Principal: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(link.RepresentativeName).To(Equal("Rosa"))
			repo.AssertCalled(GinkgoT(), "ClearPrincipal", mock.Anything, uint(1))
			Expect(uow.committed).To(Equal(1))
		})

		It("vínculo não principal não mexe nos demais", func() {
			repo.On("FindLink", mock.Anything, uint(1), uint(2)).Return(nil, nil).Once()
			repo.On("CreateLink", mock.Anything, mock.Anything).Return(nil)
			repo.On("FindLink", mock.Anything, uint(1), uint(2)).Return(&entities.GuardianLink{ID: 6}, nil).Once()

			_, err := service.Link(ctx, services.LinkInput{StudentID: 1, RepresentativeID: 2})

			Expect(err).NotTo(HaveOccurred())
			repo.AssertNotCalled(GinkgoT(), "ClearPrincipal", mock.Anything, mock.Anything)
		})

		It("par repetido retorna conflito e desfaz a transação", func() {
			repo.On("FindLink", mock.Anything, uint(1), uint(2)).Return(&entities.GuardianLink{ID: 4}, nil)

			_, err := service.Link(ctx, services.LinkInput{StudentID: 1, RepresentativeID: 2, Principal: true})

			Expect(err).To(MatchError(domainerrors.ErrGuardianLinkExists))
			Expect(uow.rolledBack).To(Equal(1))
			repo.AssertNotCalled(GinkgoT(), "ClearPrincipal", mock.Anything, mock.Anything)
		})

		It("valida alumno, representante e parentesco", func() {
			repo.On("StudentExists", mock.Anything, uint(8)).Return(false, nil)
			repo.On("RepresentativeExists", mock.Anything, uint(9)).Return(false, nil)
			repo.On("KinshipExists", mock.Anything, uint(7)).Return(false, nil)

			_, err := service.Link(ctx, services.LinkInput{StudentID: 8, RepresentativeID: 2})
			Expect(err).To(MatchError(domainerrors.ErrStudentNotFound))

			_, err = service.Link(ctx, services.LinkInput{StudentID: 1, RepresentativeID: 9})
			Expect(err).To(MatchError(domainerrors.ErrRepresentativeNotFound))

			_, err = service.Link(ctx, services.LinkInput{StudentID: 1, RepresentativeID: 2, KinshipID: uintPtr(7)})
			Expect(err).To(MatchError(domainerrors.ErrKinshipNotFound))
		})
	})

	Describe("Unlink", func() {
		It("retorna ErrGuardianLinkNotFound quando nada foi removido", func() {
			repo.On("DeleteLink", mock.Anything, uint(1), uint(3)).Return(false, nil)

			err := service.Unlink(ctx, 1, 3)
			Expect(err).To(MatchError(domainerrors.ErrGuardianLinkNotFound))
		})

		It("remove o vínculo existente", func() {
			repo.On("DeleteLink", mock.Anything, uint(1), uint(2)).Return(true, nil)

			Expect(service.Unlink(ctx, 1, 2)).To(Succeed())
		})
	})

	It("ListRepresentatives exige alumno existente", func() {
		repo.On("StudentExists", mock.Anything, uint(3)).Return(false, nil)

		_, err := service.ListRepresentatives(ctx, 3)
		Expect(err).To(MatchError(domainerrors.ErrStudentNotFound))
	})
})
