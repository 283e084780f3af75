package service

import (
	"errors"
	"testing"

	"series_guide/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestUserService(users ...*model.User) (*UserService, *fakeUserRepo, *fakeRatingRepo, *fakeCommentRepo, *fakeChatRepo) {
	userRepo := newFakeUserRepo(users...)
	ratingRepo := &fakeRatingRepo{}
	commentRepo := &fakeCommentRepo{}
	chatRepo := &fakeChatRepo{}
	return NewUserService(userRepo, ratingRepo, commentRepo, chatRepo, newFakeCache()), userRepo, ratingRepo, commentRepo, chatRepo
}

func TestToggleSetIsIdempotent(t *testing.T) {
	user := model.NewUser("ana", "ana@example.com", "x", model.UserRoleName)
	s, repo, _, _, _ := newTestUserService(user)

	for i := 0; i < 2; i++ {
		if err := s.ToggleSet(user.Id, model.FavoritesSeriesField, "pose", model.ToggleAdd); err != nil {
			t.Fatalf("add #%d: %v", i+1, err)
		}
	}
	if got := repo.get(user.Id).FavoritesSeries; len(got) != 1 || got[0] != "pose" {
		t.Errorf("favorites after double add = %v, want [pose]", got)
	}

	for i := 0; i < 2; i++ {
		if err := s.ToggleSet(user.Id, model.FavoritesSeriesField, "pose", model.ToggleRemove); err != nil {
			t.Fatalf("remove #%d: %v", i+1, err)
		}
	}
	if got := repo.get(user.Id).FavoritesSeries; len(got) != 0 {
		t.Errorf("favorites after double remove = %v, want empty", got)
	}
}

func TestToggleSetFieldsAreIndependent(t *testing.T) {
	user := model.NewUser("ana", "ana@example.com", "x", model.UserRoleName)
	s, repo, _, _, _ := newTestUserService(user)

	if err := s.ToggleSet(user.Id, model.WatchlistSeriesField, "pose", model.ToggleAdd); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleSet(user.Id, model.LikedAnalysisField, "65f000000000000000000001", model.ToggleAdd); err != nil {
		t.Fatal(err)
	}
	stored := repo.get(user.Id)
	if len(stored.WatchlistSeries) != 1 || len(stored.LikedAnalysis) != 1 {
		t.Errorf("sets = %v / %v", stored.WatchlistSeries, stored.LikedAnalysis)
	}
	if len(stored.FavoritesSeries) != 0 || len(stored.WatchedSeries) != 0 {
		t.Errorf("untouched sets changed: %v / %v", stored.FavoritesSeries, stored.WatchedSeries)
	}
}

func TestToggleSetErrors(t *testing.T) {
	user := model.NewUser("ana", "ana@example.com", "x", model.UserRoleName)
	s, repo, _, _, _ := newTestUserService(user)

	if err := s.ToggleSet(primitive.NewObjectID(), model.WatchedSeriesField, "pose", model.ToggleAdd); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user err = %v, want ErrNotFound", err)
	}
	if err := s.ToggleSet(user.Id, model.WatchedSeriesField, "pose", "toggle"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad action err = %v, want ErrInvalidInput", err)
	}
	if err := s.ToggleSet(user.Id, "password", "pose", model.ToggleAdd); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad field err = %v, want ErrInvalidInput", err)
	}

	repo.fail = true
	err := s.ToggleSet(user.Id, model.WatchedSeriesField, "pose", model.ToggleAdd)
	if !errors.Is(err, ErrServer) {
		t.Errorf("driver failure err = %v, want ErrServer", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("driver failure must not look like a missing user")
	}
}

func TestAdminCannotModifySelf(t *testing.T) {
	admin := model.NewUser("root", "root@example.com", "x", model.AdminRole)
	s, repo, _, _, _ := newTestUserService(admin)

	if err := s.SetRole(admin.Id, admin.Id, model.UserRoleName); !errors.Is(err, ErrForbidden) {
		t.Errorf("SetRole self err = %v, want ErrForbidden", err)
	}
	if err := s.SetActive(admin.Id, admin.Id, false); !errors.Is(err, ErrForbidden) {
		t.Errorf("SetActive self err = %v, want ErrForbidden", err)
	}
	if err := s.DeleteUser(admin.Id, admin.Id); !errors.Is(err, ErrForbidden) {
		t.Errorf("DeleteUser self err = %v, want ErrForbidden", err)
	}
	if stored := repo.get(admin.Id); stored.Role != model.AdminRole || !stored.IsActive {
		t.Errorf("admin changed: %+v", stored)
	}
}

func TestAdminManagesOtherUsers(t *testing.T) {
	admin := model.NewUser("root", "root@example.com", "x", model.AdminRole)
	user := model.NewUser("ana", "ana@example.com", "x", model.UserRoleName)
	s, repo, ratingRepo, _, _ := newTestUserService(admin, user)

	if err := s.SetRole(admin.Id, user.Id, model.AdminRole); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if err := s.SetRole(admin.Id, user.Id, "superuser"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("SetRole bad role err = %v", err)
	}
	if err := s.SetActive(admin.Id, user.Id, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if stored := repo.get(user.Id); stored.Role != model.AdminRole || stored.IsActive {
		t.Errorf("user = %+v", stored)
	}

	if _, err := ratingRepo.UpsertRating(user.Id, "pose", 4, ""); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteUser(admin.Id, user.Id); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if repo.get(user.Id) != nil {
		t.Error("user still stored")
	}
	if n, _ := ratingRepo.CountRatings(); n != 0 {
		t.Errorf("ratings left = %d, want 0", n)
	}
	if err := s.DeleteUser(admin.Id, user.Id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteUserDropsCachedRatingStats(t *testing.T) {
	admin := model.NewUser("root", "root@example.com", "x", model.AdminRole)
	user := model.NewUser("ana", "ana@example.com", "x", model.UserRoleName)
	s, _, ratingRepo, _, _ := newTestUserService(admin, user)
	cache := s.cache.(*fakeCache)

	for _, slug := range []string{"pose", "veneno"} {
		if _, err := ratingRepo.UpsertRating(user.Id, slug, 5, ""); err != nil {
			t.Fatal(err)
		}
		cache.SetRatingStatsCache(slug, model.EmptyRatingStats(slug))
	}
	cache.SetRatingStatsCache("succession", model.EmptyRatingStats("succession"))

	if err := s.DeleteUser(admin.Id, user.Id); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	for _, slug := range []string{"pose", "veneno"} {
		if got, _ := cache.GetRatingStatsCache(slug); got != nil {
			t.Errorf("stats of %s still cached", slug)
		}
	}
	if got, _ := cache.GetRatingStatsCache("succession"); got == nil {
		t.Error("stats of an unrelated serie were dropped")
	}
}

func TestListUsersPaginates(t *testing.T) {
	s, _, _, _, _ := newTestUserService(
		model.NewUser("ana", "ana@example.com", "secret-hash", model.UserRoleName),
		model.NewUser("bea", "bea@example.com", "secret-hash", model.UserRoleName),
	)
	res, err := s.ListUsers(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 || res.Pagination.Total != 2 || res.Pagination.TotalPages != 2 {
		t.Errorf("page = %+v", res)
	}
}
