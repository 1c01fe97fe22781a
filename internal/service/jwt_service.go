package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
)

const (
	jwtIssuer       = "school-advisor"
	tokenTypeAccess = "access"
	// jwtLeeway tolera relojes algo desfasados entre quien emite y quien valida.
	jwtLeeway = 30 * time.Second
)

// Claims es lo unico que el advisor necesita del token: un user id opaco.
type Claims struct {
	UserID    string `json:"uid"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// JWTService firma y valida access tokens HS256. Las cuentas y el login
// viven en otro sistema; aca solo se resuelve identidad.
type JWTService struct {
	secret    []byte
	accessTTL time.Duration
	parser    *jwt.Parser
	now       func() time.Time
}

func NewJWTService(secret string, accessTTL time.Duration) *JWTService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &JWTService{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(jwtIssuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(jwtLeeway),
		),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// IssueAccessToken firma un token para userID. Devuelve el token y su expiracion.
func (s *JWTService) IssueAccessToken(userID string) (string, time.Time, error) {
	userID = strings.TrimSpace(userID)
	if len(s.secret) == 0 || userID == "" {
		return "", time.Time{}, ErrJWTInvalid
	}
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.accessTTL)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAccessToken valida firma, issuer y expiracion, y que el token sea de acceso
// con subject igual al user id.
func (s *JWTService) ParseAccessToken(accessToken string) (Claims, error) {
	accessToken = strings.TrimSpace(accessToken)
	if len(s.secret) == 0 || accessToken == "" {
		return Claims{}, ErrJWTInvalid
	}

	var claims Claims
	_, err := s.parser.ParseWithClaims(accessToken, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrJWTExpired
	case err != nil:
		return Claims{}, ErrJWTInvalid
	}

	if claims.TokenType != tokenTypeAccess || strings.TrimSpace(claims.UserID) == "" || claims.Subject != claims.UserID {
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}
