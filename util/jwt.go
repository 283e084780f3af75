package util

import (
	"errors"
	"fmt"
	"time"

	"series_guide/configs"
	"series_guide/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AdminCookieName      = "auth-token"
	PublicUserCookieName = "public-auth-token"
	SessionDuration      = 7 * 24 * time.Hour
)

var ErrRoleMismatch = errors.New("token role mismatch")

type AdminJwtClaims struct {
	UserId   string         `json:"userId"`
	Username string         `json:"username"`
	Role     model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type PublicUserJwtClaims struct {
	Id       string         `json:"id"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Role     model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

//------------------------------------------
//------------------------------------------

func CreateAdminToken(userId string, username string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(SessionDuration)
	claims := AdminJwtClaims{
		UserId:   userId,
		Username: username,
		Role:     model.AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
	return token, expiresAt, err
}

// CreatePublicUserToken always embeds the "user" role.
func CreatePublicUserToken(id string, username string, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(SessionDuration)
	claims := PublicUserJwtClaims{
		Id:       id,
		Username: username,
		Email:    email,
		Role:     model.UserRoleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
	return token, expiresAt, err
}

//------------------------------------------
//------------------------------------------

func VerifyAdminToken(tokenString string) (*AdminJwtClaims, error) {
	claims := AdminJwtClaims{}
	if _, err := parse(tokenString, &claims); err != nil {
		return nil, err
	}
	if claims.Role != model.AdminRole || claims.UserId == "" {
		return nil, ErrRoleMismatch
	}
	return &claims, nil
}

// VerifyPublicUserToken rejects any token whose role is not "user", so an
// admin token can never act as a public session.
func VerifyPublicUserToken(tokenString string) (*PublicUserJwtClaims, error) {
	claims := PublicUserJwtClaims{}
	if _, err := parse(tokenString, &claims); err != nil {
		return nil, err
	}
	if claims.Role != model.UserRoleName || claims.Id == "" {
		return nil, ErrRoleMismatch
	}
	return &claims, nil
}

func parse(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signature method")
		}
		return secret(), nil
	}, jwt.WithExpirationRequired())
}

func secret() []byte {
	s := configs.GetConfigs().JwtSecret
	if s == "" {
		s = configs.DevJwtSecret
	}
	return []byte(s)
}
