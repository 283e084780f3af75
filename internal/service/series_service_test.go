package service

import (
	"errors"
	"testing"

	"series_guide/model"
)

func TestCreateSerieSyncsLgbtqClassification(t *testing.T) {
	s := NewSeriesService(newFakeSeriesRepo())

	flagged, err := s.CreateSerie(&model.SerieReq{Title: "Pose", Genre: []string{"Drama"}, LgbtqContent: true})
	if err != nil {
		t.Fatalf("CreateSerie: %v", err)
	}
	if !model.HasLgbtqGenre(flagged.Genre) {
		t.Errorf("flagged serie genres = %v, want an LGBTIQ+ tag", flagged.Genre)
	}

	tagged, err := s.CreateSerie(&model.SerieReq{Title: "Veneno", Genre: []string{"Drama", "LGBTIQ+ Trans"}})
	if err != nil {
		t.Fatal(err)
	}
	if !tagged.LgbtqContent {
		t.Error("tagged serie did not get the flag")
	}

	plain, _ := s.CreateSerie(&model.SerieReq{Title: "Succession", Genre: []string{"drama", "Drama "}})
	if plain.LgbtqContent || len(plain.Genre) != 1 {
		t.Errorf("plain serie = %v %v", plain.LgbtqContent, plain.Genre)
	}

	res, err := s.ListSeries(model.SerieFilter{Lgbtq: true}, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if res.Pagination.Total != 2 {
		t.Errorf("lgbtq filter total = %d, want 2", res.Pagination.Total)
	}
}

func TestSerieSlugs(t *testing.T) {
	s := NewSeriesService(newFakeSeriesRepo())
	created, err := s.CreateSerie(&model.SerieReq{Title: "Élite"})
	if err != nil {
		t.Fatal(err)
	}
	if created.Slug != "elite" {
		t.Errorf("slug = %q, want elite", created.Slug)
	}
	if _, err = s.CreateSerie(&model.SerieReq{Title: "Elite"}); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate slug err = %v, want ErrConflict", err)
	}
	if _, err = s.CreateSerie(&model.SerieReq{Title: "!!!"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty slug err = %v", err)
	}
	if got, err := s.GetSerieBySlug("elite"); err != nil || got.Id != created.Id {
		t.Errorf("GetSerieBySlug = %v, %v", got, err)
	}
}

func TestUpdateSerieReplacesFields(t *testing.T) {
	s := NewSeriesService(newFakeSeriesRepo())
	created, _ := s.CreateSerie(&model.SerieReq{Title: "Pose", TrailerUrl: "https://example.com/a"})

	updated, err := s.UpdateSerie(created.Id.Hex(), &model.SerieReq{
		Title:        "Pose",
		TrailerUrl:   "https://example.com/b",
		LgbtqContent: true,
	})
	if err != nil {
		t.Fatalf("UpdateSerie: %v", err)
	}
	if updated.TrailerUrl != "https://example.com/b" || !updated.IsLgbtq() {
		t.Errorf("updated = %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("createdAt changed on update")
	}

	if _, err = s.UpdateSerie("bad", &model.SerieReq{Title: "x"}); !errors.Is(err, ErrInvalidId) {
		t.Errorf("bad id err = %v", err)
	}
	if err = s.DeleteSerie(created.Id.Hex()); err != nil {
		t.Fatal(err)
	}
	if _, err = s.GetSerieById(created.Id.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete err = %v", err)
	}
}
