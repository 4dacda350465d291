package service

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/clock"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/constants"
	commonerrors "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/errors"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
)

type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenCodec signs session ids into HS256 tokens. A token only names a
// session; whether that session is still open is decided by storage.
type TokenCodec struct {
	secret []byte
	clock  clock.Clock
}

func NewTokenCodec(secret string, clk clock.Clock) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), clock: clk}
}

func (c *TokenCodec) Sign(session domain.Session) (domain.Token, error) {
	claims := Claims{
		SessionID: string(session.ID),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    constants.SessionTokenIssuer,
			Subject:   string(session.UserID),
			ID:        string(session.ID),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return domain.Token(signed), nil
}

// Parse verifies signature, issuer and expiry.
func (c *TokenCodec) Parse(token domain.Token) (Claims, error) {
	return c.parse(token,
		jwt.WithIssuer(constants.SessionTokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.clock.Now),
	)
}

// ParseSignature verifies only the signature, so an expired token can still
// name the session it belonged to.
func (c *TokenCodec) ParseSignature(token domain.Token) (Claims, error) {
	return c.parse(token, jwt.WithoutClaimsValidation())
}

func (c *TokenCodec) parse(token domain.Token, opts ...jwt.ParserOption) (Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	var claims Claims
	parsed, err := jwt.ParseWithClaims(string(token), &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, commonerrors.ErrInvalidTokenSigningMethod
		}
		return c.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, commonerrors.ErrInvalidTokenSigningMethod) {
			return Claims{}, commonerrors.ErrInvalidTokenSigningMethod
		}
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}
	if !parsed.Valid {
		return Claims{}, commonerrors.ErrInvalidToken
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return Claims{}, commonerrors.ErrMissingTokenClaims
	}
	return claims, nil
}
