package auth_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/auth"
	"github.com/frahmantamala/hours-portal/internal/department"
	"github.com/frahmantamala/hours-portal/internal/session"
	"github.com/frahmantamala/hours-portal/internal/state"
)

const secret = "0123456789abcdef0123456789abcdef"

func newSession(logger *slog.Logger) *session.Controller {
	repo := state.NewRepository(state.NewMemoryKV(), "", logger)
	c, err := session.NewController(context.Background(), repo, nil, nil, logger)
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("JWTTokenGenerator", func() {
	It("round-trips the supervisor identity", func() {
		gen := auth.NewJWTTokenGenerator(secret, time.Hour)

		token, expiresAt, err := gen.GenerateAccessToken("sup-4", "atozier@cardshield.me")
		Expect(err).NotTo(HaveOccurred())
		Expect(expiresAt).To(BeTemporally("~", time.Now().Add(time.Hour), 5*time.Second))

		claims, err := gen.ValidateToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.SupervisorID).To(Equal("sup-4"))
		Expect(claims.Email).To(Equal("atozier@cardshield.me"))
		Expect(claims.Subject).To(Equal("sup-4"))
	})

	It("reports expired tokens", func() {
		gen := &auth.JWTTokenGenerator{Secret: []byte(secret), TTL: -time.Minute}
		token, _, err := gen.GenerateAccessToken("sup-1", "x@y.z")
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.ValidateToken(token)
		Expect(err).To(MatchError(internal.ErrTokenExpired))
	})

	It("rejects tokens signed with another secret or algorithm", func() {
		other := auth.NewJWTTokenGenerator("ffffffffffffffffffffffffffffffff", time.Hour)
		token, _, err := other.GenerateAccessToken("sup-1", "x@y.z")
		Expect(err).NotTo(HaveOccurred())

		_, err = auth.NewJWTTokenGenerator(secret, time.Hour).ValidateToken(token)
		Expect(err).To(MatchError(internal.ErrInvalidToken))

		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &auth.Claims{SupervisorID: "sup-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())
		_, err = auth.NewJWTTokenGenerator(secret, time.Hour).ValidateToken(unsigned)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})
})

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		service *auth.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = auth.NewService(newSession(logger), auth.NewJWTTokenGenerator(secret, time.Hour), logger)
	})

	It("logs in an allow-listed supervisor and authenticates their token", func() {
		resp, err := service.Login(ctx, auth.LoginDTO{Email: "ATOZIER@cardshield.me"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Token).NotTo(BeEmpty())
		Expect(resp.Supervisor.ID).To(Equal("sup-4"))

		sup, err := service.Authenticate(resp.Token)
		Expect(err).NotTo(HaveOccurred())
		Expect(sup.ID).To(Equal("sup-4"))

		me, err := service.Me(ctx, "sup-4")
		Expect(err).NotTo(HaveOccurred())
		Expect(me.Departments).To(Equal([]department.Department{department.Operations, department.Affiliate}))
	})

	It("denies unknown and empty emails", func() {
		_, err := service.Login(ctx, auth.LoginDTO{Email: "nobody@example.com"})
		Expect(err).To(MatchError(internal.ErrLoginDenied))

		_, err = service.Login(ctx, auth.LoginDTO{Email: "   "})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
	})

	It("invalidates earlier tokens once someone else logs in", func() {
		first, err := service.Login(ctx, auth.LoginDTO{Email: "atozier@cardshield.me"})
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Login(ctx, auth.LoginDTO{Email: "seye@cardshield.me"})
		Expect(err).NotTo(HaveOccurred())

		_, err = service.Authenticate(first.Token)
		Expect(err).To(MatchError(internal.ErrNotLoggedIn))
	})

	It("invalidates the token on logout", func() {
		resp, err := service.Login(ctx, auth.LoginDTO{Email: "atozier@cardshield.me"})
		Expect(err).NotTo(HaveOccurred())
		Expect(service.Logout(ctx, "sup-4")).To(Succeed())

		_, err = service.Authenticate(resp.Token)
		Expect(err).To(MatchError(internal.ErrNotLoggedIn))
	})
})
