package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

// CallerHeader carries the caller address when token authentication is disabled.
const CallerHeader = "X-Caller-Address"

var (
	ErrMissingCredentials = errors.New("missing caller credentials")
	ErrInvalidToken       = errors.New("invalid caller token")
)

type AuthProviderInterface interface {
	// Authenticate resolves the address of the caller of r.
	Authenticate(r *http.Request) (models.Address, error)
	Issue(caller models.Address, ttl time.Duration) (string, error)
}

type CallerClaims struct {
	jwt.RegisteredClaims
}

type JwtAuthProvider struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func (a *JwtAuthProvider) Authenticate(r *http.Request) (models.Address, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", ErrMissingCredentials
	}

	var claims CallerClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !models.IsValidAddress(claims.Subject) {
		return "", fmt.Errorf("%w: subject is not an address", ErrInvalidToken)
	}
	return models.NewAddress(claims.Subject), nil
}

func (a *JwtAuthProvider) Issue(caller models.Address, ttl time.Duration) (string, error) {
	now := a.now()
	claims := CallerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   caller.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// headerAuthProvider trusts the caller header; used on private networks only.
type headerAuthProvider struct{}

func (headerAuthProvider) Authenticate(r *http.Request) (models.Address, error) {
	caller := r.Header.Get(CallerHeader)
	if caller == "" {
		return "", ErrMissingCredentials
	}
	return models.NewAddress(caller), nil
}

func (headerAuthProvider) Issue(caller models.Address, _ time.Duration) (string, error) {
	return caller.String(), nil
}

func NewAuthProvider(conf *structures.Config, clock ClockInterface, logger Logger) AuthProviderInterface {
	if !conf.Auth.Enabled {
		logger.Warnf(TypeApp, "Token authentication disabled, trusting %s header", CallerHeader)
		return headerAuthProvider{}
	}
	return &JwtAuthProvider{
		secret: []byte(conf.Auth.Secret),
		issuer: conf.Auth.Issuer,
		now:    clock.Now,
	}
}
