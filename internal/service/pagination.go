package service

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// pageBounds clamps page and limit and returns the skip to apply.
func pageBounds(page int64, limit int64) (int64, int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}
