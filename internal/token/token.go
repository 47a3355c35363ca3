// Package token issues and verifies the signed bearer tokens the service
// hands out at login. Tokens are HS256 JWTs with an expiry; the auth gate
// still re-reads the user row on every request, so deleting a customer
// revokes their outstanding tokens.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"crmbackend/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity carried by a token.
type Claims struct {
	UserID     int64
	Email      string
	PositionID models.Position
}

// Pair is the access/refresh token pair returned by login.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Issuer creates a token pair for an authenticated customer.
type Issuer interface {
	Issue(claims Claims) (Pair, error)
}

// Verifier resolves a raw access token back to its claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

type JWT struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewJWT(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWT {
	return &JWT{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (j *JWT) Issue(claims Claims) (Pair, error) {
	accessToken, err := j.sign(claims, j.accessSecret, j.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refreshToken, err := j.sign(claims, j.refreshSecret, j.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (j *JWT) sign(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	mapClaims := jwt.MapClaims{
		"sub":        strconv.FormatInt(claims.UserID, 10),
		"email":      claims.Email,
		"positionId": int(claims.PositionID),
		"exp":        time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString(secret)
}

func (j *JWT) Verify(raw string) (Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return j.accessSecret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	email, _ := mapClaims["email"].(string)
	positionID, ok := mapClaims["positionId"].(float64)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		UserID:     userID,
		Email:      email,
		PositionID: models.Position(int(positionID)),
	}, nil
}
