package services_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/services"
)

var _ = Describe("RoleService", func() {
	var (
		ctx      context.Context
		roles    *MockRoleRepository
		users    *MockUserRepository
		notifier *MockNotifier
		service  *services.RoleService
	)

	BeforeEach(func() {
		ctx = context.Background()
		roles = &MockRoleRepository{}
		users = &MockUserRepository{}
		notifier = &MockNotifier{}
		service = services.NewRoleService(roles, users, notifier, newTestLogger())
	})

	Describe("CreateRole", func() {
		It("normaliza as capabilities e remove duplicatas", func() {
			roles.On("FindByName", mock.Anything, "secretaria").Return(nil, nil)
			roles.On("Create", mock.Anything, mock.Anything).Return(nil)

			role, err := service.CreateRole(ctx, services.RoleInput{
				Name:        " secretaria ",
				Permissions: []string{"alumnos:read", " alumnos:read", "*"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(role.Name).To(Equal("secretaria"))
			Expect(role.Permissions).To(Equal([]string{"alumnos:read", "*:*"}))
			Expect(role.AccessLevelOverride).To(BeNil())
		})

		It("rejeita capability malformada", func() {
			_, err := service.CreateRole(ctx, services.RoleInput{Name: "x", Permissions: []string{"alumnos"}})
			Expect(err).To(MatchError(domainerrors.ErrInvalidPermission))
		})

		It("rejeita nome repetido", func() {
			roles.On("FindByName", mock.Anything, "profesor").Return(&entities.Role{ID: 3, Name: "profesor"}, nil)

			_, err := service.CreateRole(ctx, services.RoleInput{Name: "profesor"})
			Expect(err).To(MatchError(domainerrors.ErrRoleAlreadyExists))
		})
	})

	Describe("ReplacePermissions", func() {
		BeforeEach(func() {
			roles.On("FindByID", mock.Anything, uint(3)).Return(&entities.Role{ID: 3, Name: "profesor", Permissions: []string{"alumnos:read"}}, nil)
			roles.On("Update", mock.Anything, mock.Anything).Return(nil)
		})

		It("grava e avisa os membros do rol", func() {
			users.On("ListIDsByRole", mock.Anything, uint(3)).Return([]uint{10, 11}, nil)
			notifier.On("PermissionsChanged", mock.Anything, []uint{10, 11}).Return()

			level := 1
			role, err := service.ReplacePermissions(ctx, 3, []string{"eventos:read", "roles:read"}, &level)

			Expect(err).NotTo(HaveOccurred())
			Expect(role.Permissions).To(Equal([]string{"eventos:read", "roles:read"}))
			Expect(*role.AccessLevelOverride).To(Equal(entities.AccessLevelConditional))
			notifier.AssertExpectations(GinkgoT())
		})

		It("não avisa ninguém quando o rol não tem membros", func() {
			users.On("ListIDsByRole", mock.Anything, uint(3)).Return([]uint{}, nil)

			_, err := service.ReplacePermissions(ctx, 3, nil, nil)

			Expect(err).NotTo(HaveOccurred())
			notifier.AssertNotCalled(GinkgoT(), "PermissionsChanged", mock.Anything, mock.Anything)
		})

		It("mantém a alteração mesmo se a listagem de membros falhar", func() {
			users.On("ListIDsByRole", mock.Anything, uint(3)).Return(nil, errors.New("timeout"))

			_, err := service.ReplacePermissions(ctx, 3, []string{"eventos:read"}, nil)

			Expect(err).NotTo(HaveOccurred())
			roles.AssertCalled(GinkgoT(), "Update", mock.Anything, mock.Anything)
		})

		It("retorna ErrRoleNotFound para rol inexistente", func() {
			roles.On("FindByID", mock.Anything, uint(42)).Return(nil, nil)

			_, err := service.ReplacePermissions(ctx, 42, nil, nil)
			Expect(err).To(MatchError(domainerrors.ErrRoleNotFound))
		})
	})
})
