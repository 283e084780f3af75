package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	AdminRole    UserRole = "admin"
	UserRoleName UserRole = "user"
)

type User struct {
	Id              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username        string             `bson:"username" json:"username"`
	Email           string             `bson:"email" json:"email"`
	Password        string             `bson:"password" json:"-"`
	Role            UserRole           `bson:"role" json:"role"`
	IsActive        bool               `bson:"isActive" json:"isActive"`
	FavoritesSeries []string           `bson:"favoritesSeries" json:"favoritesSeries"`
	WatchlistSeries []string           `bson:"watchlistSeries" json:"watchlistSeries"`
	WatchedSeries   []string           `bson:"watchedSeries" json:"watchedSeries"`
	LikedAnalysis   []string           `bson:"likedAnalysis" json:"likedAnalysis"`
	LastLogin       *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewUser returns a user with empty (non-nil) membership sets, so the
// stored document always carries the four arrays.
func NewUser(username string, email string, passwordHash string, role UserRole) *User {
	now := time.Now().UTC()
	return &User{
		Username:        username,
		Email:           email,
		Password:        passwordHash,
		Role:            role,
		IsActive:        true,
		FavoritesSeries: []string{},
		WatchlistSeries: []string{},
		WatchedSeries:   []string{},
		LikedAnalysis:   []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

//------------------------------------------
//------------------------------------------

// UserSetField names one of the string sets owned by a user.
type UserSetField string

const (
	FavoritesSeriesField UserSetField = "favoritesSeries"
	WatchlistSeriesField UserSetField = "watchlistSeries"
	WatchedSeriesField   UserSetField = "watchedSeries"
	LikedAnalysisField   UserSetField = "likedAnalysis"
)

func (f UserSetField) IsValid() bool {
	switch f {
	case FavoritesSeriesField, WatchlistSeriesField, WatchedSeriesField, LikedAnalysisField:
		return true
	}
	return false
}

type ToggleAction string

const (
	ToggleAdd    ToggleAction = "add"
	ToggleRemove ToggleAction = "remove"
)

func (a ToggleAction) IsValid() bool {
	return a == ToggleAdd || a == ToggleRemove
}

//------------------------------------------
//------------------------------------------

type UserProfileRes struct {
	Id              string     `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	Role            UserRole   `json:"role"`
	IsActive        bool       `json:"isActive"`
	FavoritesSeries []string   `json:"favoritesSeries"`
	WatchlistSeries []string   `json:"watchlistSeries"`
	WatchedSeries   []string   `json:"watchedSeries"`
	LikedAnalysis   []string   `json:"likedAnalysis"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func (u *User) ToProfile() *UserProfileRes {
	return &UserProfileRes{
		Id:              u.Id.Hex(),
		Username:        u.Username,
		Email:           u.Email,
		Role:            u.Role,
		IsActive:        u.IsActive,
		FavoritesSeries: nonNil(u.FavoritesSeries),
		WatchlistSeries: nonNil(u.WatchlistSeries),
		WatchedSeries:   nonNil(u.WatchedSeries),
		LikedAnalysis:   nonNil(u.LikedAnalysis),
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
	}
}

type UserSummary struct {
	Id       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email,omitempty" json:"email,omitempty"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
