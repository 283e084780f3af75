package configs

import "testing"

func TestSetDbConfigsFillsDefaults(t *testing.T) {
	defer SetDbConfigs(DefaultDbConfigs())

	SetDbConfigs(DbConfigData{ChatMaxMessages: 50, DisableRegistration: true})
	got := GetDbConfigs()

	if got.ChatMaxMessages != 50 {
		t.Errorf("ChatMaxMessages = %d, want 50", got.ChatMaxMessages)
	}
	if !got.DisableRegistration {
		t.Error("DisableRegistration should be kept")
	}
	if got.CommentMaxLength != 1000 {
		t.Errorf("CommentMaxLength = %d, want default 1000", got.CommentMaxLength)
	}
	if got.ChatMessageMaxLength != 500 {
		t.Errorf("ChatMessageMaxLength = %d, want default 500", got.ChatMessageMaxLength)
	}
	if got.Title != dbConfigsTitle {
		t.Errorf("Title = %q, want %q", got.Title, dbConfigsTitle)
	}
}

func TestSplitOrigins(t *testing.T) {
	got := splitOrigins(" https://a.example --- https://b.example ---")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("splitOrigins() = %v", got)
	}
	if len(splitOrigins("")) != 0 {
		t.Error("empty value should give no origins")
	}
}
