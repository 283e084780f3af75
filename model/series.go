package model

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SerieStatus string

const (
	SerieOngoing   SerieStatus = "ongoing"
	SerieEnded     SerieStatus = "ended"
	SerieCancelled SerieStatus = "cancelled"
)

type Platform struct {
	Name      string `bson:"name" json:"name" validate:"required"`
	Available bool   `bson:"available" json:"available"`
	IsPremium bool   `bson:"isPremium" json:"isPremium"`
}

type Serie struct {
	Id            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description" json:"description"`
	Genre         []string           `bson:"genre" json:"genre"`
	Network       string             `bson:"network" json:"network"`
	StartYear     int                `bson:"startYear" json:"startYear"`
	EndYear       *int               `bson:"endYear,omitempty" json:"endYear,omitempty"`
	TotalSeasons  int                `bson:"totalSeasons" json:"totalSeasons"`
	TotalEpisodes int                `bson:"totalEpisodes" json:"totalEpisodes"`
	Status        SerieStatus        `bson:"status" json:"status"`
	ImdbId        string             `bson:"imdbId" json:"imdbId"`
	ImdbRating    float64            `bson:"imdbRating" json:"imdbRating"`
	PosterUrl     string             `bson:"posterUrl" json:"posterUrl"`
	BackdropUrl   string             `bson:"backdropUrl" json:"backdropUrl"`
	TrailerUrl    string             `bson:"trailerUrl" json:"trailerUrl"`
	LgbtqContent  bool               `bson:"lgbtqContent" json:"lgbtqContent"`
	Platforms     []Platform         `bson:"platforms" json:"platforms"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

//------------------------------------------
//------------------------------------------

const (
	LgbtqGenreTag     = "LGBTIQ+"
	LgbtqGenreKeyword = "lgbtiq"
)

// LgbtqGenrePattern matches every LGBTIQ+ genre tag, including the specific
// subtypes ("LGBTIQ+ Trans", "LGBTIQ+ Gay", ...).
var LgbtqGenrePattern = regexp.MustCompile("(?i)" + LgbtqGenreKeyword)

func HasLgbtqGenre(genres []string) bool {
	for _, g := range genres {
		if LgbtqGenrePattern.MatchString(g) {
			return true
		}
	}
	return false
}

// SyncLgbtqClassification makes the boolean flag and the genre tags agree:
// a tag sets the flag, and a set flag without any tag gets the generic tag.
func (s *Serie) SyncLgbtqClassification() {
	if HasLgbtqGenre(s.Genre) {
		s.LgbtqContent = true
		return
	}
	if s.LgbtqContent {
		s.Genre = append(s.Genre, LgbtqGenreTag)
	}
}

func (s *Serie) IsLgbtq() bool {
	return s.LgbtqContent || HasLgbtqGenre(s.Genre)
}

func NormalizeGenres(genres []string) []string {
	result := make([]string, 0, len(genres))
	seen := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		key := strings.ToLower(g)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, g)
	}
	return result
}

//------------------------------------------
//------------------------------------------

type SerieFilter struct {
	Genre    string
	Platform string
	Lgbtq    bool
	Query    string
}

//------------------------------------------
//------------------------------------------

type SerieReq struct {
	Title         string      `json:"title" validate:"required,max=200"`
	Slug          string      `json:"slug" validate:"omitempty,max=200"`
	Description   string      `json:"description" validate:"max=5000"`
	Genre         []string    `json:"genre" validate:"dive,max=60"`
	Network       string      `json:"network" validate:"max=100"`
	StartYear     int         `json:"startYear" validate:"omitempty,min=1900,max=2100"`
	EndYear       *int        `json:"endYear" validate:"omitempty,min=1900,max=2100"`
	TotalSeasons  int         `json:"totalSeasons" validate:"min=0"`
	TotalEpisodes int         `json:"totalEpisodes" validate:"min=0"`
	Status        SerieStatus `json:"status" validate:"omitempty,oneof=ongoing ended cancelled"`
	ImdbId        string      `json:"imdbId" validate:"max=20"`
	ImdbRating    float64     `json:"imdbRating" validate:"min=0,max=10"`
	PosterUrl     string      `json:"posterUrl" validate:"omitempty,url"`
	BackdropUrl   string      `json:"backdropUrl" validate:"omitempty,url"`
	TrailerUrl    string      `json:"trailerUrl" validate:"omitempty,url"`
	LgbtqContent  bool        `json:"lgbtqContent"`
	Platforms     []Platform  `json:"platforms" validate:"dive"`
}

// ToSerie copies the request into a new document value. Identity and
// timestamps are left for the caller.
func (r *SerieReq) ToSerie() *Serie {
	status := r.Status
	if status == "" {
		status = SerieOngoing
	}
	platforms := r.Platforms
	if platforms == nil {
		platforms = []Platform{}
	}
	return &Serie{
		Title:         r.Title,
		Slug:          r.Slug,
		Description:   r.Description,
		Genre:         NormalizeGenres(r.Genre),
		Network:       r.Network,
		StartYear:     r.StartYear,
		EndYear:       r.EndYear,
		TotalSeasons:  r.TotalSeasons,
		TotalEpisodes: r.TotalEpisodes,
		Status:        status,
		ImdbId:        r.ImdbId,
		ImdbRating:    r.ImdbRating,
		PosterUrl:     r.PosterUrl,
		BackdropUrl:   r.BackdropUrl,
		TrailerUrl:    r.TrailerUrl,
		LgbtqContent:  r.LgbtqContent,
		Platforms:     platforms,
	}
}
