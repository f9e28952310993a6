package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/clock"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// In-memory stand-in for the password reset token table.
type memResetRepo struct {
	byToken map[string]*repository.PasswordResetToken
	nextID  int
}

func newMemResetRepo() *memResetRepo {
	return &memResetRepo{byToken: make(map[string]*repository.PasswordResetToken)}
}

func (m *memResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	m.nextID++
	token.ID = string(rune('a' + m.nextID))
	stored := *token
	m.byToken[token.Token] = &stored
	return nil
}

func (m *memResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	stored, ok := m.byToken[tokenStr]
	if !ok {
		return nil, util.NewNotFound("token", nil)
	}
	copied := *stored
	return &copied, nil
}

func (m *memResetRepo) MarkUsed(_ context.Context, id string) error {
	for _, stored := range m.byToken {
		if stored.ID == id {
			now := time.Now()
			stored.UsedAt = &now
			return nil
		}
	}
	return util.NewNotFound("token", nil)
}

var _ = Describe("AuthService", func() {
	var (
		ctx    context.Context
		store  *memStore
		clk    *clock.FixedClock
		resets *memResetRepo
		svc    *service.AuthService
	)

	authCfg := config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTLMinutes:   60,
		PasswordResetTTLMinutes: 30,
		BcryptCost:              4,
	}

	BeforeEach(func() {
		ctx = context.Background()
		store = newMemStore()
		clk = clock.NewFixed(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
		resets = newMemResetRepo()
		svc = service.NewAuthService(service.AuthServiceDeps{
			Store:          store,
			PasswordResets: resets,
			Tokens:         auth.NewTokenManager(authCfg, clk),
			Clock:          clk,
			Logger:         zap.NewNop(),
			Config:         authCfg,
		})
	})

	Describe("Register", func() {
		It("grants exactly the USER role and nothing else", func() {
			user, err := svc.Register(ctx, "alice", "s3cret")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Roles).To(ConsistOf(domain.RoleUser))

			stored, err := store.users.GetByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Roles).To(ConsistOf(domain.RoleUser))
			Expect(stored.HasAnyRole(domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee)).To(BeFalse())
		})

		It("rejects a taken name", func() {
			_, err := svc.Register(ctx, "alice", "s3cret")
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Register(ctx, "alice", "other")
			Expect(util.ToDomainError(err).Code).To(Equal("CONFLICT"))
		})

		It("never stores the plaintext password", func() {
			user, err := svc.Register(ctx, "alice", "s3cret")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.PasswordHash).NotTo(Equal("s3cret"))
			Expect(auth.VerifyPassword(user.PasswordHash, "s3cret")).To(BeTrue())
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			_, err := svc.Register(ctx, "alice", "s3cret")
			Expect(err).NotTo(HaveOccurred())
		})

		It("issues a parseable token for valid credentials", func() {
			token, user, err := svc.Login(ctx, "alice", "s3cret")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Name).To(Equal("alice"))

			claims, err := auth.NewTokenManager(authCfg, clk).ParseToken(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Name).To(Equal("alice"))
			Expect(claims.Subject).To(Equal(user.ID))
		})

		It("rejects a wrong password without hinting why", func() {
			_, _, err := svc.Login(ctx, "alice", "wrong")
			Expect(util.ToDomainError(err).Code).To(Equal("UNAUTHORIZED"))
		})

		It("rejects an unknown name the same way", func() {
			_, _, err := svc.Login(ctx, "nobody", "s3cret")
			Expect(util.ToDomainError(err).Code).To(Equal("UNAUTHORIZED"))
		})
	})

	Describe("ChangePassword", func() {
		BeforeEach(func() {
			_, err := svc.Register(ctx, "alice", "s3cret")
			Expect(err).NotTo(HaveOccurred())
		})

		It("swaps the password when the old one checks out", func() {
			Expect(svc.ChangePassword(ctx, "alice", "s3cret", "n3w-secret")).To(Succeed())

			_, _, err := svc.Login(ctx, "alice", "n3w-secret")
			Expect(err).NotTo(HaveOccurred())
			_, _, err = svc.Login(ctx, "alice", "s3cret")
			Expect(err).To(HaveOccurred())
		})

		It("rejects a wrong old password", func() {
			err := svc.ChangePassword(ctx, "alice", "wrong", "n3w-secret")
			Expect(util.ToDomainError(err).Code).To(Equal("VALIDATION_FAILED"))
		})
	})

	Describe("password reset flow", func() {
		BeforeEach(func() {
			_, err := svc.Register(ctx, "alice", "s3cret")
			Expect(err).NotTo(HaveOccurred())
		})

		It("redeems a fresh token exactly once", func() {
			token, err := svc.RequestPasswordReset(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())

			Expect(svc.ConfirmPasswordReset(ctx, token, "n3w-secret")).To(Succeed())
			_, _, err = svc.Login(ctx, "alice", "n3w-secret")
			Expect(err).NotTo(HaveOccurred())

			err = svc.ConfirmPasswordReset(ctx, token, "another")
			Expect(util.ToDomainError(err).Code).To(Equal("VALIDATION_FAILED"))
		})

		It("rejects an expired token", func() {
			token, err := svc.RequestPasswordReset(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())

			clk.Set(clk.Now().Add(31 * time.Minute))
			err = svc.ConfirmPasswordReset(ctx, token, "n3w-secret")
			Expect(util.ToDomainError(err).Code).To(Equal("VALIDATION_FAILED"))
		})

		It("stays quiet about unknown accounts", func() {
			token, err := svc.RequestPasswordReset(ctx, "nobody")
			Expect(err).NotTo(HaveOccurred())
			Expect(token).To(BeEmpty())
		})
	})
})
