package services_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"

	"github.com/rafabene/orquesta-admin/internal/domain/entities"
	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/services"
)

var _ = Describe("AuthService", func() {
	var (
		ctx    context.Context
		users  *MockUserRepository
		roles  *MockRoleRepository
		hasher *MockHasher
		tokens *MockTokenService
		auth   *services.AuthService
		user   *entities.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		users = &MockUserRepository{}
		roles = &MockRoleRepository{}
		hasher = &MockHasher{}
		tokens = &MockTokenService{}
		resolver := services.NewIdentityResolver(users, roles, newTestLogger())
		auth = services.NewAuthService(users, resolver, hasher, tokens, 8*time.Hour, newTestLogger())

		user = newUser(1, uintPtr(1), entities.AccessLevelFull)
		user.PasswordHash = "hash"
		users.On("FindByEmail", mock.Anything, "user@local").Return(user, nil)
		users.On("FindByID", mock.Anything, uint(1)).Return(user, nil)
		roles.On("FindByID", mock.Anything, uint(1)).Return(&entities.Role{ID: 1, Name: "administrador", Permissions: []string{"*"}}, nil)
	})

	Describe("Login", func() {
		It("emite token com sessão nova e devolve a identidade", func() {
			hasher.On("Compare", []byte("hash"), []byte("secret")).Return(nil)
			tokens.On("GenerateAccessToken", uint(1), mock.AnythingOfType("string"), 8*time.Hour).Return("token", nil)

			result, err := auth.Login(ctx, services.LoginInput{Email: "  User@Local ", Password: "secret"})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.AccessToken).To(Equal("token"))
			Expect(result.SessionID).NotTo(BeEmpty())
			Expect(result.Identity.Role).To(Equal("administrador"))
			Expect(result.Identity.CanSeeAdministrativeArea()).To(BeTrue())
		})

		It("rejeita senha errada", func() {
			hasher.On("Compare", mock.Anything, mock.Anything).Return(errors.New("mismatch"))

			_, err := auth.Login(ctx, services.LoginInput{Email: "user@local", Password: "x"})
			Expect(err).To(MatchError(domainerrors.ErrInvalidCredentials))
			tokens.AssertNotCalled(GinkgoT(), "GenerateAccessToken", mock.Anything, mock.Anything, mock.Anything)
		})

		It("rejeita email desconhecido", func() {
			users.On("FindByEmail", mock.Anything, "ghost@local").Return(nil, nil)

			_, err := auth.Login(ctx, services.LoginInput{Email: "ghost@local", Password: "x"})
			Expect(err).To(MatchError(domainerrors.ErrInvalidCredentials))
		})

		It("rejeita usuário inativo", func() {
			user.Active = false
			hasher.On("Compare", mock.Anything, mock.Anything).Return(nil)

			_, err := auth.Login(ctx, services.LoginInput{Email: "user@local", Password: "secret"})
			Expect(err).To(MatchError(domainerrors.ErrInactiveUser))
		})
	})

	Describe("Authenticate", func() {
		It("converte token inválido em ErrUnauthorized", func() {
			tokens.On("ParseAccessToken", "bad").Return(nil, errors.New("expired"))

			_, err := auth.Authenticate("bad")
			Expect(err).To(MatchError(domainerrors.ErrUnauthorized))
		})

		It("devolve as claims do token válido", func() {
			tokens.On("ParseAccessToken", "good").Return(&ports.TokenClaims{UserID: 1, SessionID: "s"}, nil)

			claims, err := auth.Authenticate("good")
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(uint(1)))
		})
	})

	It("Me re-resolve a identidade a cada chamada", func() {
		_, err := auth.Me(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		_, err = auth.Me(ctx, 1)
		Expect(err).NotTo(HaveOccurred())

		users.AssertNumberOfCalls(GinkgoT(), "FindByID", 2)
	})
})
