package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role issued. Authorization is binary: a valid admin
// token or nothing.
const RoleAdmin = "ADMIN"

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, expiry, or a missing subject.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken signs an HS256 JWT whose subject is the admin's email.
func NewAccessToken(secret, email, role string, ttlMin int) (AccessToken, error) {
	return NewAccessTokenAt(secret, email, role, ttlMin, time.Now())
}

// NewAccessTokenAt is NewAccessToken with an explicit issue time.
func NewAccessTokenAt(secret, email, role string, ttlMin int, issued time.Time) (AccessToken, error) {
	issued = issued.UTC()
	exp := issued.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  email,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  issued.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Claims is the verified content of an access token.
type Claims struct {
	Subject string
	Role    string
}

// ParseAccessToken verifies signature, algorithm and expiry and returns the
// subject and role claims.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	if sub == "" {
		return Claims{}, ErrInvalidToken
	}
	role, _ := mc["role"].(string)
	return Claims{Subject: sub, Role: role}, nil
}
