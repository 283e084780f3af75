package service

import (
	"errors"
	"testing"

	"series_guide/model"
)

func newTestAnalysisService() (*AnalysisService, *fakeAnalysisRepo) {
	repo := &fakeAnalysisRepo{}
	return NewAnalysisService(repo), repo
}

func TestAnalysisCounters(t *testing.T) {
	s, repo := newTestAnalysisService()
	a, err := s.CreateAnalysis(&model.AnalysisReq{Title: "La Veneno, icono", Content: "...", Status: model.AnalysisPublished})
	if err != nil {
		t.Fatalf("CreateAnalysis: %v", err)
	}
	if a.Slug != "la-veneno-icono" || a.PublishedAt == nil {
		t.Errorf("created = %q publishedAt=%v", a.Slug, a.PublishedAt)
	}

	for i := 0; i < 3; i++ {
		if err = s.IncrementViews(a.Id.Hex()); err != nil {
			t.Fatal(err)
		}
	}
	if err = s.IncrementViews(a.Slug); err != nil {
		t.Fatal(err)
	}
	if err = s.ApplyLikeAction(a.Slug, model.AnalysisLike); err != nil {
		t.Fatal(err)
	}
	stored := repo.byKey(a.Slug)
	if stored.Views != 4 || stored.Likes != 1 {
		t.Errorf("views=%d likes=%d, want 4 and 1", stored.Views, stored.Likes)
	}
}

func TestDecrementLikesNeverNegative(t *testing.T) {
	s, repo := newTestAnalysisService()
	a, _ := s.CreateAnalysis(&model.AnalysisReq{Title: "Pose", Content: "..."})

	if err := s.ApplyLikeAction(a.Id.Hex(), model.AnalysisUnlike); err != nil {
		t.Fatalf("unlike at zero: %v", err)
	}
	if got := repo.byKey(a.Slug).Likes; got != 0 {
		t.Errorf("likes = %d, want 0", got)
	}
	_ = s.ApplyLikeAction(a.Slug, model.AnalysisAdd)
	_ = s.ApplyLikeAction(a.Slug, model.AnalysisRemove)
	_ = s.ApplyLikeAction(a.Slug, model.AnalysisRemove)
	if got := repo.byKey(a.Slug).Likes; got != 0 {
		t.Errorf("likes = %d, want 0", got)
	}
}

func TestAnalysisCounterErrors(t *testing.T) {
	s, _ := newTestAnalysisService()
	if err := s.IncrementViews("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("views on missing err = %v", err)
	}
	if err := s.DecrementLikes("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unlike on missing err = %v", err)
	}
	if err := s.ApplyLikeAction("missing", "love"); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("bad action err = %v", err)
	}
	if err := s.IncrementLikes(""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty key err = %v", err)
	}
}

func TestUpdateAnalysisKeepsCounters(t *testing.T) {
	s, _ := newTestAnalysisService()
	a, _ := s.CreateAnalysis(&model.AnalysisReq{Title: "Draft", Content: "..."})
	_ = s.IncrementViews(a.Slug)
	_ = s.IncrementLikes(a.Slug)

	updated, err := s.UpdateAnalysis(a.Id.Hex(), &model.AnalysisReq{
		Title:   "Final",
		Slug:    "final",
		Content: "done",
		Status:  model.AnalysisPublished,
	})
	if err != nil {
		t.Fatalf("UpdateAnalysis: %v", err)
	}
	if updated.Views != 1 || updated.Likes != 1 {
		t.Errorf("counters = %d/%d, want 1/1", updated.Views, updated.Likes)
	}
	if updated.PublishedAt == nil {
		t.Error("publishing did not set publishedAt")
	}
	if _, err = s.GetBySlug("final"); err != nil {
		t.Errorf("GetBySlug published: %v", err)
	}
}

func TestDraftAnalysisHiddenBySlug(t *testing.T) {
	s, _ := newTestAnalysisService()
	a, _ := s.CreateAnalysis(&model.AnalysisReq{Title: "Secret", Content: "..."})
	if _, err := s.GetBySlug(a.Slug); !errors.Is(err, ErrNotFound) {
		t.Errorf("draft by slug err = %v, want ErrNotFound", err)
	}
	if _, err := s.CreateAnalysis(&model.AnalysisReq{Title: "Secret", Content: "..."}); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate slug err = %v, want ErrConflict", err)
	}
}
