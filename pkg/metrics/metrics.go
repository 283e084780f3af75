package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "series_guide",
		Name:      "login_attempts_total",
		Help:      "Login attempts by session track and result.",
	}, []string{"track", "result"})

	PasswordMigrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "series_guide",
		Name:      "password_migrations_total",
		Help:      "Stored password hashes upgraded from a legacy scheme.",
	}, []string{"scheme"})

	RatingsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "series_guide",
		Name:      "ratings_submitted_total",
		Help:      "Rating upserts accepted.",
	})

	ChatMessagesTrimmed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "series_guide",
		Name:      "chat_messages_trimmed_total",
		Help:      "Chat messages removed by the retention cleanup.",
	})
)
