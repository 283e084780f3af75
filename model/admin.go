package model

type DashboardCounts struct {
	Users              int64 `json:"users"`
	ActiveUsers        int64 `json:"activeUsers"`
	Admins             int64 `json:"admins"`
	Series             int64 `json:"series"`
	Analyses           int64 `json:"analyses"`
	PublishedAnalyses  int64 `json:"publishedAnalyses"`
	Ratings            int64 `json:"ratings"`
	Comments           int64 `json:"comments"`
	BlogPosts          int64 `json:"blogPosts"`
	PublishedBlogPosts int64 `json:"publishedBlogPosts"`
}

type DashboardStats struct {
	Counts       DashboardCounts `json:"counts"`
	Chat         ChatStats       `json:"chat"`
	TopRated     []TopRatedSerie `json:"topRated"`
	TopReviewers []TopReviewer   `json:"topReviewers"`
}
