package devserver

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"taskboard-client/domain"
)

var (
	errMissingAuthorization = errors.New("missing authorization header")
	errBadAuthorization     = errors.New("bad auth header")
)

// issueToken signs an HS256 token carrying the claims the client decodes.
func issueToken(secret []byte, userID string, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"_id":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// userFromAuthHeader verifies a bearer token and returns its identity
// claims. Unlike the real client, the emulator does verify signatures: it
// plays the backend, which is the authority.
func userFromAuthHeader(secret []byte, header string) (string, domain.Role, error) {
	if header == "" {
		return "", "", errMissingAuthorization
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "", errBadAuthorization
	}
	if strings.Count(parts[1], ".") != 2 {
		return "", "", errBadAuthorization
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.Parse(parts[1], func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid claims")
	}
	id, _ := claims["_id"].(string)
	if id == "" {
		return "", "", errors.New("missing _id")
	}
	rawRole, _ := claims["role"].(string)
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return "", "", err
	}
	return id, role, nil
}
