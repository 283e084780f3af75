package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"series_guide/configs"
	"series_guide/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestChatService() (*ChatService, *fakeChatRepo, *model.User, *model.User) {
	ana := model.NewUser("ana", "ana@example.com", "x", model.UserRoleName)
	root := model.NewUser("root", "root@example.com", "x", model.AdminRole)
	repo := &fakeChatRepo{}
	return NewChatService(repo, newFakeUserRepo(ana, root)), repo, ana, root
}

func TestChatSendAndList(t *testing.T) {
	s, _, ana, _ := newTestChatService()
	for i := 0; i < 3; i++ {
		if _, err := s.Send(ana.Id, fmt.Sprintf("msg %d", i), ""); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	messages, err := s.List(2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 2 || messages[0].Message != "msg 1" || messages[1].Message != "msg 2" {
		t.Errorf("List = %+v, want the two newest oldest first", messages)
	}
	if messages[0].Username != "ana" || messages[0].Type != model.ChatMessageNormal {
		t.Errorf("message = %+v", messages[0])
	}
}

func TestChatListBefore(t *testing.T) {
	s, repo, ana, _ := newTestChatService()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		repo.messages = append(repo.messages, &model.ChatMessage{
			Id:        primitive.NewObjectID(),
			UserId:    ana.Id,
			Message:   fmt.Sprintf("m%d", i),
			Type:      model.ChatMessageNormal,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	before := base.Add(2 * time.Minute)
	messages, err := s.List(10, &before)
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 2 || messages[0].Message != "m0" || messages[1].Message != "m1" {
		t.Errorf("List(before) = %+v", messages)
	}
}

func TestChatMessageLength(t *testing.T) {
	s, _, ana, _ := newTestChatService()
	if _, err := s.Send(ana.Id, strings.Repeat("a", 501), ""); !errors.Is(err, ErrContentTooLong) {
		t.Errorf("long err = %v", err)
	}
	if _, err := s.Send(ana.Id, strings.Repeat("a", 500), ""); err != nil {
		t.Errorf("max length err = %v", err)
	}
	if _, err := s.Send(ana.Id, " ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank err = %v", err)
	}
	if _, err := s.Send(ana.Id, "hi", primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("reply to missing err = %v", err)
	}
}

func TestChatEditRules(t *testing.T) {
	s, _, ana, root := newTestChatService()
	msg, _ := s.Send(ana.Id, "hello", "")

	if _, err := s.Edit(msg.Id.Hex(), root.Id, "hacked"); !errors.Is(err, ErrForbidden) {
		t.Errorf("edit by other err = %v", err)
	}
	edited, err := s.Edit(msg.Id.Hex(), ana.Id, "hello!")
	if err != nil {
		t.Fatal(err)
	}
	if !edited.IsEdited || edited.Message != "hello!" {
		t.Errorf("edited = %+v", edited)
	}

	announcement, err := s.Announce(root.Id, "maintenance tonight")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = s.Edit(announcement.Id.Hex(), root.Id, "changed"); !errors.Is(err, ErrNotEditable) {
		t.Errorf("edit announcement err = %v", err)
	}

	system, err := s.SystemMessage("welcome")
	if err != nil {
		t.Fatal(err)
	}
	if system.Username != model.SystemChatUsername || system.Type != model.ChatMessageSystem {
		t.Errorf("system = %+v", system)
	}
}

func TestChatDeleteRules(t *testing.T) {
	s, _, ana, root := newTestChatService()
	msg, _ := s.Send(ana.Id, "hello", "")
	other, _ := s.Send(ana.Id, "again", "")

	if err := s.Delete(msg.Id.Hex(), root.Id, false); !errors.Is(err, ErrForbidden) {
		t.Errorf("delete by other err = %v", err)
	}
	if err := s.Delete(msg.Id.Hex(), ana.Id, false); err != nil {
		t.Errorf("delete own: %v", err)
	}
	if err := s.Delete(other.Id.Hex(), root.Id, true); err != nil {
		t.Errorf("admin delete: %v", err)
	}
	if err := s.Delete(other.Id.Hex(), root.Id, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestChatCleanupKeepsNewest(t *testing.T) {
	previous := configs.GetDbConfigs()
	capped := previous
	capped.ChatMaxMessages = 3
	configs.SetDbConfigs(capped)
	defer configs.SetDbConfigs(previous)

	s, repo, ana, _ := newTestChatService()
	for i := 0; i < 5; i++ {
		_, _ = s.Send(ana.Id, fmt.Sprintf("msg %d", i), "")
	}
	removed, err := s.Cleanup()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 || repo.count() != 3 {
		t.Errorf("removed=%d remaining=%d", removed, repo.count())
	}
	messages, _ := s.List(10, nil)
	if messages[0].Message != "msg 2" {
		t.Errorf("oldest kept = %q, want msg 2", messages[0].Message)
	}
	if removed, _ = s.Cleanup(); removed != 0 {
		t.Errorf("second cleanup removed %d", removed)
	}
}

func TestChatStats(t *testing.T) {
	s, repo, ana, root := newTestChatService()
	_, _ = s.Send(ana.Id, "a", "")
	_, _ = s.Send(ana.Id, "b", "")
	_, _ = s.Send(root.Id, "c", "")
	_, _ = s.SystemMessage("welcome")
	repo.messages = append(repo.messages, &model.ChatMessage{
		Id:        primitive.NewObjectID(),
		UserId:    primitive.NewObjectID(),
		Type:      model.ChatMessageNormal,
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	})

	stats, err := s.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalMessages != 5 || stats.MessagesLast24h != 4 || stats.ActiveUsers != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestChatCleanupWorkerStops(t *testing.T) {
	s, _, _, _ := newTestChatService()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunCleanupWorker(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
