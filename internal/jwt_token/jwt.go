package jwttoken

import (
	"crypto/sha256"
	"errors"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	id "agencyreg/pkg/domain"
	dErrors "agencyreg/pkg/domain-errors"
)

// Claims represents the JWT claims for caller tokens. The subject is the
// caller's principal.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService issues and validates caller tokens. Hosts use it to establish
// who is calling the registry before passing that principal through.
type JWTService struct {
	signingKey []byte
	issuer     string
}

// signingKeyInfo binds derived keys to caller tokens.
const signingKeyInfo = "agencyreg caller token v1"

// NewJWTService derives the HMAC key from signingKey with HKDF-SHA256, so the
// configured secret is never used as the MAC key directly.
func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{
		signingKey: deriveSigningKey(signingKey),
		issuer:     issuer,
	}
}

func deriveSigningKey(secret string) []byte {
	key := make([]byte, sha256.Size)
	// A single hash-length read from HKDF cannot fail.
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(signingKeyInfo)), key); err != nil {
		panic(err)
	}
	return key
}

// GenerateCallerToken signs a token asserting principal as the caller.
func (s *JWTService) GenerateCallerToken(principal id.Principal, expiresIn time.Duration) (string, error) {
	if principal.IsZero() {
		return "", dErrors.New(dErrors.CodeBadRequest, "principal is required")
	}
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signedToken, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// Authenticate validates a caller token and returns the principal it names.
func (s *JWTService) Authenticate(tokenString string) (id.Principal, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	principal, err := id.ParsePrincipal(claims.Subject)
	if err != nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	return principal, nil
}
