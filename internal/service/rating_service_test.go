package service

import (
	"errors"
	"fmt"
	"testing"

	"series_guide/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestRatingService() (*RatingService, *fakeRatingRepo, *fakeCache) {
	repo := &fakeRatingRepo{}
	cache := newFakeCache()
	return NewRatingService(repo, cache), repo, cache
}

func TestRateTwiceKeepsOneRating(t *testing.T) {
	s, _, _ := newTestRatingService()
	userId := primitive.NewObjectID()

	if _, err := s.Rate(userId, "pose", 3, "good"); err != nil {
		t.Fatalf("first rate: %v", err)
	}
	rating, err := s.Rate(userId, "pose", 5, "great")
	if err != nil {
		t.Fatalf("second rate: %v", err)
	}
	if rating.Rating != 5 || rating.Review != "great" {
		t.Errorf("rating = %d %q, want 5 %q", rating.Rating, rating.Review, "great")
	}

	stats, err := s.GetStats("pose")
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalRatings != 1 {
		t.Errorf("TotalRatings = %d, want 1", stats.TotalRatings)
	}
	if stats.AverageRating != 5 {
		t.Errorf("AverageRating = %v, want 5", stats.AverageRating)
	}
}

func TestGetStatsAggregates(t *testing.T) {
	s, _, _ := newTestRatingService()
	for _, score := range []int{5, 5, 4, 3, 3} {
		if _, err := s.Rate(primitive.NewObjectID(), "heartstopper", score, ""); err != nil {
			t.Fatalf("Rate: %v", err)
		}
	}

	stats, err := s.GetStats("heartstopper")
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.AverageRating != 4.0 {
		t.Errorf("AverageRating = %v, want 4.0", stats.AverageRating)
	}
	if stats.TotalRatings != 5 {
		t.Errorf("TotalRatings = %d, want 5", stats.TotalRatings)
	}
	want := map[int]int64{1: 0, 2: 0, 3: 2, 4: 1, 5: 2}
	for score, n := range want {
		if stats.RatingDistribution[score] != n {
			t.Errorf("distribution[%d] = %d, want %d", score, stats.RatingDistribution[score], n)
		}
	}
}

func TestGetStatsUnratedSerie(t *testing.T) {
	s, _, _ := newTestRatingService()
	stats, err := s.GetStats("nobody-rated-this")
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalRatings != 0 || stats.AverageRating != 0 {
		t.Errorf("stats = %+v, want zeros", stats)
	}
	if len(stats.RatingDistribution) != 5 {
		t.Errorf("distribution has %d buckets, want 5", len(stats.RatingDistribution))
	}
}

func TestRateInvalidatesCachedStats(t *testing.T) {
	s, _, cache := newTestRatingService()
	if _, err := s.Rate(primitive.NewObjectID(), "pose", 2, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetStats("pose"); err != nil {
		t.Fatal(err)
	}
	if cache.stats["pose"] == nil {
		t.Fatal("stats were not cached")
	}
	if _, err := s.Rate(primitive.NewObjectID(), "pose", 4, ""); err != nil {
		t.Fatal(err)
	}
	stats, _ := s.GetStats("pose")
	if stats.TotalRatings != 2 || stats.AverageRating != 3 {
		t.Errorf("stats after second rating = %+v", stats)
	}
}

func TestRateRejectsInvalidInput(t *testing.T) {
	s, _, _ := newTestRatingService()
	userId := primitive.NewObjectID()
	for _, score := range []int{0, 6, -1} {
		if _, err := s.Rate(userId, "pose", score, ""); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("Rate(score=%d) err = %v, want ErrInvalidRating", score, err)
		}
	}
	if _, err := s.Rate(userId, "  ", 3, ""); !errors.Is(err, ErrMissingSlug) {
		t.Errorf("Rate(blank slug) err = %v, want ErrMissingSlug", err)
	}
	long := make([]rune, ReviewMaxLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := s.Rate(userId, "pose", 3, string(long)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Rate(long review) err = %v, want ErrInvalidInput", err)
	}
}

func TestBatchStatsPartial(t *testing.T) {
	s, _, _ := newTestRatingService()
	userId := primitive.NewObjectID()
	if _, err := s.Rate(userId, "b", 4, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Rate(primitive.NewObjectID(), "b", 2, ""); err != nil {
		t.Fatal(err)
	}

	result, err := s.BatchStats(ParseSerieSlugs("a,b,c"), &userId)
	if err != nil {
		t.Fatalf("BatchStats: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("got %d entries, want 3", len(result))
	}
	if got := result["b"]; got.UserRating != 4 || got.AverageRating != 3 || got.TotalRatings != 2 {
		t.Errorf("b = %+v", got)
	}
	for _, slug := range []string{"a", "c"} {
		if got := result[slug]; got != (model.BatchRatingItem{}) {
			t.Errorf("%s = %+v, want zeros", slug, got)
		}
	}
}

func TestBatchStatsDegradesOnFailure(t *testing.T) {
	s, repo, _ := newTestRatingService()
	userId := primitive.NewObjectID()
	if _, err := s.Rate(userId, "b", 4, ""); err != nil {
		t.Fatal(err)
	}
	repo.failScores = true

	result, err := s.BatchStats([]string{"a", "b"}, &userId)
	if err != nil {
		t.Fatalf("BatchStats: %v", err)
	}
	if got := result["b"]; got.UserRating != 4 || got.TotalRatings != 0 {
		t.Errorf("b = %+v, want user rating only", got)
	}
	if _, ok := result["a"]; !ok {
		t.Error("missing entry for a")
	}
}

func TestBatchStatsAnonymous(t *testing.T) {
	s, _, _ := newTestRatingService()
	if _, err := s.Rate(primitive.NewObjectID(), "a", 5, ""); err != nil {
		t.Fatal(err)
	}
	result, err := s.BatchStats([]string{"a"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := result["a"]; got.UserRating != 0 || got.TotalRatings != 1 {
		t.Errorf("a = %+v", got)
	}
	if _, err = s.BatchStats(nil, nil); !errors.Is(err, ErrMissingSlug) {
		t.Errorf("empty batch err = %v, want ErrMissingSlug", err)
	}
}

func TestBatchStatsSizeLimit(t *testing.T) {
	s, _, _ := newTestRatingService()
	if _, err := s.Rate(primitive.NewObjectID(), "s-100", 5, ""); err != nil {
		t.Fatal(err)
	}

	slugs := make([]string, 0, maxBatchSlugs+1)
	for i := 1; i <= maxBatchSlugs; i++ {
		slugs = append(slugs, fmt.Sprintf("s-%d", i))
	}
	result, err := s.BatchStats(slugs, nil)
	if err != nil {
		t.Fatalf("BatchStats(%d slugs): %v", len(slugs), err)
	}
	if len(result) != maxBatchSlugs || result["s-100"].TotalRatings != 1 {
		t.Errorf("answered %d, s-100 = %+v", len(result), result["s-100"])
	}

	slugs = append(slugs, "s-101")
	if result, err = s.BatchStats(slugs, nil); !errors.Is(err, ErrTooManySlugs) || result != nil {
		t.Errorf("oversize batch: result = %d entries, err = %v", len(result), err)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("oversize batch err kind = %v, want ErrInvalidInput", err)
	}
}

func TestParseSerieSlugs(t *testing.T) {
	got := ParseSerieSlugs(" a, b,,a ,c,")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestDeleteRating(t *testing.T) {
	s, _, _ := newTestRatingService()
	userId := primitive.NewObjectID()
	if err := s.Delete(userId, "pose"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete missing err = %v, want ErrNotFound", err)
	}
	if _, err := s.Rate(userId, "pose", 3, ""); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(userId, "pose"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	rating, err := s.GetUserRating(userId, "pose")
	if err != nil || rating != nil {
		t.Errorf("GetUserRating after delete = %v, %v", rating, err)
	}
}
