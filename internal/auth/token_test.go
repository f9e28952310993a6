package auth_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/clock"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
)

var _ = Describe("TokenManager", func() {
	var (
		clk     *clock.FixedClock
		manager *auth.TokenManager
		user    *domain.User
	)

	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60}

	BeforeEach(func() {
		clk = clock.NewFixed(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
		manager = auth.NewTokenManager(cfg, clk)
		user = &domain.User{
			ID:    "user-1",
			Name:  "alice",
			Roles: []domain.Role{domain.RoleUser, domain.RoleEmployee},
		}
	})

	It("round-trips the subject, name and roles", func() {
		token, err := manager.GenerateToken(user)
		Expect(err).NotTo(HaveOccurred())

		claims, err := manager.ParseToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.Subject).To(Equal("user-1"))
		Expect(claims.Name).To(Equal("alice"))
		Expect(claims.Roles).To(ConsistOf(domain.RoleUser, domain.RoleEmployee))
	})

	It("rejects a token signed with a different secret", func() {
		other := auth.NewTokenManager(config.AuthConfig{JWTSecret: "other", AccessTokenTTLMinutes: 60}, clk)
		token, err := other.GenerateToken(user)
		Expect(err).NotTo(HaveOccurred())

		_, err = manager.ParseToken(token)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a token past its TTL", func() {
		token, err := manager.GenerateToken(user)
		Expect(err).NotTo(HaveOccurred())

		clk.Set(clk.Now().Add(61 * time.Minute))
		_, err = manager.ParseToken(token)
		Expect(err).To(HaveOccurred())
	})

	It("rejects garbage", func() {
		_, err := manager.ParseToken("not-a-token")
		Expect(err).To(HaveOccurred())
	})
})
