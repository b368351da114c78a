package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is what a verified poll assertion says about its bearer.
type Claims struct {
	PollID string
	UserID string
	Name   string
}

// Issuer signs and verifies poll assertions with a shared HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (i *Issuer) Issue(pollID, userID, name string) (string, error) {
	const op = "jwt.Issue"

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)

	claims["sub"] = userID
	claims["pollID"] = pollID
	claims["name"] = name
	claims["iat"] = i.now().Unix()
	claims["exp"] = i.now().Add(i.ttl).Unix()

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

func (i *Issuer) Verify(token string) (Claims, error) {
	const op = "jwt.Verify"

	if token == "" {
		return Claims{}, fmt.Errorf("%s: %w: empty token", op, ErrInvalidToken)
	}

	parsed, err := jwt.ParseWithClaims(token, jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, fmt.Errorf("%s: %w: %v", op, ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, fmt.Errorf("%s: %w: invalid token claims", op, ErrInvalidToken)
	}

	userID, _ := claims["sub"].(string)
	pollID, _ := claims["pollID"].(string)
	name, _ := claims["name"].(string)
	if userID == "" || pollID == "" {
		return Claims{}, fmt.Errorf("%s: %w: sub or pollID claim missing", op, ErrInvalidToken)
	}

	return Claims{PollID: pollID, UserID: userID, Name: name}, nil
}
