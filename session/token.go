package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"taskboard-client/domain"
)

var (
	errBadToken     = errors.New("bad token")
	errTokenExpired = errors.New("token expired")
	errMissingID    = errors.New("token missing _id")
	errMissingRole  = errors.New("token missing role")
)

// Claims is the subset of the token payload the client cares about.
type Claims struct {
	UserID string
	Role   domain.Role
}

// DecodeClaims parses the payload of a three-part signed token without
// verifying the signature. The client only uses decoded claims for UI
// routing; the server independently authorizes every API call, so local
// verification would add nothing it can trust.
func DecodeClaims(token string) (Claims, error) {
	if strings.Count(token, ".") != 2 {
		return Claims{}, errBadToken
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errBadToken
	}

	// An expired token is as good as no token.
	if !claims.VerifyExpiresAt(time.Now().Unix(), false) {
		return Claims{}, errTokenExpired
	}

	id, _ := claims["_id"].(string)
	if id == "" {
		id, _ = claims["sub"].(string)
	}
	if id == "" {
		return Claims{}, errMissingID
	}

	rawRole, _ := claims["role"].(string)
	if rawRole == "" {
		return Claims{}, errMissingRole
	}
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return Claims{}, err
	}

	return Claims{UserID: id, Role: role}, nil
}
