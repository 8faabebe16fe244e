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

var _ = Describe("UserService", func() {
	var (
		ctx      context.Context
		users    *MockUserRepository
		roles    *MockRoleRepository
		hasher   *MockHasher
		notifier *MockNotifier
		service  *services.UserService
	)

	BeforeEach(func() {
		ctx = context.Background()
		users = &MockUserRepository{}
		roles = &MockRoleRepository{}
		hasher = &MockHasher{}
		notifier = &MockNotifier{}
		service = services.NewUserService(users, roles, hasher, notifier, entities.NewAdminRoleRule("admin"), newTestLogger())

		hasher.On("Hash", mock.Anything).Return([]byte("hashed"), nil)
		users.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	})

	Describe("CreateUser", func() {
		It("resolve o nível padrão pelo nome do rol", func() {
			roles.On("FindByID", mock.Anything, uint(1)).Return(&entities.Role{ID: 1, Name: "Administrador"}, nil)
			users.On("Create", mock.Anything, mock.AnythingOfType("*entities.User")).Return(nil)

			user, err := service.CreateUser(ctx, services.CreateUserInput{
				Email: "nuevo@local", Name: "Nuevo", Password: "secret", RoleID: uintPtr(1),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(user.EffectiveAccessLevel()).To(Equal(entities.AccessLevelFull))
			Expect(user.PasswordHash).To(Equal("hashed"))
			Expect(user.Active).To(BeTrue())
		})

		It("usa o override do rol quando presente", func() {
			one := entities.AccessLevelConditional
			roles.On("FindByID", mock.Anything, uint(2)).Return(&entities.Role{ID: 2, Name: "admin parcial", AccessLevelOverride: &one}, nil)
			users.On("Create", mock.Anything, mock.Anything).Return(nil)

			user, err := service.CreateUser(ctx, services.CreateUserInput{
				Email: "parcial@local", Name: "Parcial", Password: "secret", RoleID: uintPtr(2),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(user.EffectiveAccessLevel()).To(Equal(entities.AccessLevelConditional))
		})

		It("sem rol recebe o nível padrão", func() {
			users.On("Create", mock.Anything, mock.Anything).Return(nil)

			user, err := service.CreateUser(ctx, services.CreateUserInput{Email: "libre@local", Name: "Libre", Password: "secret"})

			Expect(err).NotTo(HaveOccurred())
			Expect(user.EffectiveAccessLevel()).To(Equal(entities.AccessLevelStandard))
		})

		It("rejeita email duplicado", func() {
			users.ExpectedCalls = nil
			users.On("FindByEmail", mock.Anything, "dup@local").Return(newUser(1, nil, entities.AccessLevelStandard), nil)

			_, err := service.CreateUser(ctx, services.CreateUserInput{Email: "dup@local", Name: "Dup", Password: "x"})
			Expect(err).To(MatchError(domainerrors.ErrEmailAlreadyExists))
		})

		It("rejeita rol inexistente e nível fora da faixa", func() {
			roles.On("FindByID", mock.Anything, uint(9)).Return(nil, nil)

			_, err := service.CreateUser(ctx, services.CreateUserInput{Email: "a@local", Name: "Ana", Password: "x", RoleID: uintPtr(9)})
			Expect(err).To(MatchError(domainerrors.ErrRoleNotFound))

			level := 5
			_, err = service.CreateUser(ctx, services.CreateUserInput{Email: "b@local", Name: "Beto", Password: "x", AccessLevel: &level})
			Expect(err).To(MatchError(domainerrors.ErrInvalidAccessLevel))
		})
	})

	Describe("UpdateUser", func() {
		It("grava a alteração e avisa as sessões do usuário", func() {
			users.On("FindByID", mock.Anything, uint(3)).Return(newUser(3, nil, entities.AccessLevelStandard), nil)
			users.On("Update", mock.Anything, mock.Anything).Return(nil)
			notifier.On("PermissionsChanged", mock.Anything, []uint{3}).Return()

			active := false
			level := 1
			user, err := service.UpdateUser(ctx, 3, services.UpdateUserInput{Active: &active, AccessLevel: &level})

			Expect(err).NotTo(HaveOccurred())
			Expect(user.Active).To(BeFalse())
			Expect(user.EffectiveAccessLevel()).To(Equal(entities.AccessLevelConditional))
			notifier.AssertExpectations(GinkgoT())
		})

		It("ao trocar de rol sem nível explícito, aplica o nível padrão do novo rol", func() {
			users.On("FindByID", mock.Anything, uint(5)).Return(newUser(5, uintPtr(2), entities.AccessLevelStandard), nil)
			roles.On("FindByID", mock.Anything, uint(1)).Return(&entities.Role{ID: 1, Name: "Administrador"}, nil)
			users.On("Update", mock.Anything, mock.Anything).Return(nil)
			notifier.On("PermissionsChanged", mock.Anything, []uint{5}).Return()

			user, err := service.UpdateUser(ctx, 5, services.UpdateUserInput{RoleID: uintPtr(1)})

			Expect(err).NotTo(HaveOccurred())
			Expect(*user.RoleID).To(Equal(uint(1)))
			Expect(user.EffectiveAccessLevel()).To(Equal(entities.AccessLevelFull))
		})

		It("nível explícito vence o padrão do novo rol", func() {
			users.On("FindByID", mock.Anything, uint(6)).Return(newUser(6, nil, entities.AccessLevelStandard), nil)
			roles.On("FindByID", mock.Anything, uint(1)).Return(&entities.Role{ID: 1, Name: "Administrador"}, nil)
			users.On("Update", mock.Anything, mock.Anything).Return(nil)
			notifier.On("PermissionsChanged", mock.Anything, []uint{6}).Return()

			level := 1
			user, err := service.UpdateUser(ctx, 6, services.UpdateUserInput{RoleID: uintPtr(1), AccessLevel: &level})

			Expect(err).NotTo(HaveOccurred())
			Expect(user.EffectiveAccessLevel()).To(Equal(entities.AccessLevelConditional))
		})

		It("reenviar o mesmo rol mantém o nível atual", func() {
			users.On("FindByID", mock.Anything, uint(7)).Return(newUser(7, uintPtr(1), entities.AccessLevelConditional), nil)
			roles.On("FindByID", mock.Anything, uint(1)).Return(&entities.Role{ID: 1, Name: "Administrador"}, nil)
			users.On("Update", mock.Anything, mock.Anything).Return(nil)
			notifier.On("PermissionsChanged", mock.Anything, []uint{7}).Return()

			user, err := service.UpdateUser(ctx, 7, services.UpdateUserInput{RoleID: uintPtr(1)})

			Expect(err).NotTo(HaveOccurred())
			Expect(user.EffectiveAccessLevel()).To(Equal(entities.AccessLevelConditional))
		})

		It("ClearRole remove o rol e volta ao nível padrão", func() {
			users.On("FindByID", mock.Anything, uint(8)).Return(newUser(8, uintPtr(1), entities.AccessLevelFull), nil)
			users.On("Update", mock.Anything, mock.Anything).Return(nil)
			notifier.On("PermissionsChanged", mock.Anything, []uint{8}).Return()

			user, err := service.UpdateUser(ctx, 8, services.UpdateUserInput{ClearRole: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(user.RoleID).To(BeNil())
			Expect(user.EffectiveAccessLevel()).To(Equal(entities.AccessLevelStandard))
			roles.AssertNotCalled(GinkgoT(), "FindByID", mock.Anything, mock.Anything)
		})

		It("retorna ErrRoleNotFound para rol inexistente", func() {
			users.On("FindByID", mock.Anything, uint(9)).Return(newUser(9, nil, entities.AccessLevelStandard), nil)
			roles.On("FindByID", mock.Anything, uint(42)).Return(nil, nil)

			_, err := service.UpdateUser(ctx, 9, services.UpdateUserInput{RoleID: uintPtr(42)})
			Expect(err).To(MatchError(domainerrors.ErrRoleNotFound))
			users.AssertNotCalled(GinkgoT(), "Update", mock.Anything, mock.Anything)
		})

		It("retorna ErrUserNotFound", func() {
			users.On("FindByID", mock.Anything, uint(4)).Return(nil, nil)

			_, err := service.UpdateUser(ctx, 4, services.UpdateUserInput{})
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})
})
