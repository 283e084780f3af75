package service

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"series_guide/internal/repository"
	"series_guide/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errFakeDriver = errors.New("connection reset by peer")

//------------------------------------------
//------------------------------------------

type fakeUserRepo struct {
	mux   sync.Mutex
	users map[primitive.ObjectID]*model.User
	fail  bool
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]*model.User)}
	for _, u := range users {
		if u.Id.IsZero() {
			u.Id = primitive.NewObjectID()
		}
		r.users[u.Id] = u
	}
	return r
}

func (r *fakeUserRepo) copyOf(u *model.User) *model.User {
	c := *u
	c.FavoritesSeries = append([]string{}, u.FavoritesSeries...)
	c.WatchlistSeries = append([]string{}, u.WatchlistSeries...)
	c.WatchedSeries = append([]string{}, u.WatchedSeries...)
	c.LikedAnalysis = append([]string{}, u.LikedAnalysis...)
	return &c
}

func (r *fakeUserRepo) CreateUser(user *model.User) (primitive.ObjectID, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	user.Id = primitive.NewObjectID()
	r.users[user.Id] = r.copyOf(user)
	return user.Id, nil
}

func (r *fakeUserRepo) GetUserById(userId primitive.ObjectID) (*model.User, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.fail {
		return nil, errFakeDriver
	}
	if u, ok := r.users[userId]; ok {
		return r.copyOf(u), nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*model.User, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.fail {
		return nil, errFakeDriver
	}
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			return r.copyOf(u), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserByIdentifier(identifier string) (*model.User, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.fail {
		return nil, errFakeDriver
	}
	for _, u := range r.users {
		if u.Username == identifier || u.Email == strings.ToLower(identifier) {
			return r.copyOf(u), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserSummaries(userIds []primitive.ObjectID) ([]model.UserSummary, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.UserSummary, 0)
	for _, id := range userIds {
		if u, ok := r.users[id]; ok {
			result = append(result, model.UserSummary{Id: u.Id, Username: u.Username})
		}
	}
	return result, nil
}

func (r *fakeUserRepo) UpdateUserPassword(userId primitive.ObjectID, passwordHash string) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if u, ok := r.users[userId]; ok {
		u.Password = passwordHash
	}
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(userId primitive.ObjectID) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if u, ok := r.users[userId]; ok {
		now := time.Now().UTC()
		u.LastLogin = &now
	}
	return nil
}

func (r *fakeUserRepo) ToggleUserSet(userId primitive.ObjectID, field model.UserSetField, item string, action model.ToggleAction) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.fail {
		return false, errFakeDriver
	}
	u, ok := r.users[userId]
	if !ok {
		return false, nil
	}
	var set *[]string
	switch field {
	case model.FavoritesSeriesField:
		set = &u.FavoritesSeries
	case model.WatchlistSeriesField:
		set = &u.WatchlistSeries
	case model.WatchedSeriesField:
		set = &u.WatchedSeries
	case model.LikedAnalysisField:
		set = &u.LikedAnalysis
	}
	idx := -1
	for i, v := range *set {
		if v == item {
			idx = i
		}
	}
	if action == model.ToggleAdd && idx == -1 {
		*set = append(*set, item)
	}
	if action == model.ToggleRemove && idx != -1 {
		*set = append((*set)[:idx], (*set)[idx+1:]...)
	}
	return true, nil
}

func (r *fakeUserRepo) ListUsers(skip int64, limit int64) ([]model.User, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.User, 0)
	for _, u := range r.users {
		result = append(result, *r.copyOf(u))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return paginate(result, skip, limit), nil
}

func (r *fakeUserRepo) CountUsers(role model.UserRole, activeOnly bool) (int64, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	var n int64
	for _, u := range r.users {
		if (role == "" || u.Role == role) && (!activeOnly || u.IsActive) {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) UpdateUserRole(userId primitive.ObjectID, role model.UserRole) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	u, ok := r.users[userId]
	if ok {
		u.Role = role
	}
	return ok, nil
}

func (r *fakeUserRepo) UpdateUserActive(userId primitive.ObjectID, isActive bool) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	u, ok := r.users[userId]
	if ok {
		u.IsActive = isActive
	}
	return ok, nil
}

func (r *fakeUserRepo) DeleteUser(userId primitive.ObjectID) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	_, ok := r.users[userId]
	delete(r.users, userId)
	return ok, nil
}

func (r *fakeUserRepo) get(userId primitive.ObjectID) *model.User {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.users[userId]
}

//------------------------------------------
//------------------------------------------

type fakeRatingRepo struct {
	mux        sync.Mutex
	ratings    []*model.Rating
	failScores bool
	failUser   bool
}

func (r *fakeRatingRepo) UpsertRating(userId primitive.ObjectID, serieSlug string, score int, review string) (*model.Rating, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	now := time.Now().UTC()
	for _, rt := range r.ratings {
		if rt.UserId == userId && rt.SerieSlug == serieSlug {
			rt.Rating = score
			rt.Review = review
			rt.UpdatedAt = now
			c := *rt
			return &c, nil
		}
	}
	rt := &model.Rating{
		Id:        primitive.NewObjectID(),
		UserId:    userId,
		SerieSlug: serieSlug,
		Rating:    score,
		Review:    review,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.ratings = append(r.ratings, rt)
	c := *rt
	return &c, nil
}

func (r *fakeRatingRepo) GetUserRating(userId primitive.ObjectID, serieSlug string) (*model.Rating, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, rt := range r.ratings {
		if rt.UserId == userId && rt.SerieSlug == serieSlug {
			c := *rt
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeRatingRepo) GetUserRatingsForSeries(userId primitive.ObjectID, serieSlugs []string) ([]model.Rating, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.failUser {
		return nil, errFakeDriver
	}
	result := make([]model.Rating, 0)
	for _, rt := range r.ratings {
		if rt.UserId == userId && containsString(serieSlugs, rt.SerieSlug) {
			result = append(result, *rt)
		}
	}
	return result, nil
}

func (r *fakeRatingRepo) GetRatingsByUser(userId primitive.ObjectID, skip int64, limit int64) ([]model.Rating, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.Rating, 0)
	for _, rt := range r.ratings {
		if rt.UserId == userId {
			result = append(result, *rt)
		}
	}
	return paginate(result, skip, limit), nil
}

func (r *fakeRatingRepo) GetSerieRatings(serieSlug string, skip int64, limit int64) ([]model.RatingWithUser, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.RatingWithUser, 0)
	for _, rt := range r.ratings {
		if rt.SerieSlug == serieSlug {
			result = append(result, model.RatingWithUser{Rating: *rt})
		}
	}
	return paginate(result, skip, limit), nil
}

func (r *fakeRatingRepo) CountSerieRatings(serieSlug string) (int64, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	var n int64
	for _, rt := range r.ratings {
		if rt.SerieSlug == serieSlug {
			n++
		}
	}
	return n, nil
}

func (r *fakeRatingRepo) CountRatings() (int64, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	return int64(len(r.ratings)), nil
}

func (r *fakeRatingRepo) GetScoreCounts(serieSlugs []string) ([]model.ScoreCount, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.failScores {
		return nil, errFakeDriver
	}
	type key struct {
		slug  string
		score int
	}
	counts := make(map[key]int64)
	for _, rt := range r.ratings {
		if containsString(serieSlugs, rt.SerieSlug) {
			counts[key{rt.SerieSlug, rt.Rating}]++
		}
	}
	result := make([]model.ScoreCount, 0, len(counts))
	for k, n := range counts {
		result = append(result, model.ScoreCount{SerieSlug: k.slug, Score: k.score, Count: n})
	}
	return result, nil
}

func (r *fakeRatingRepo) DeleteRating(userId primitive.ObjectID, serieSlug string) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for i, rt := range r.ratings {
		if rt.UserId == userId && rt.SerieSlug == serieSlug {
			r.ratings = append(r.ratings[:i], r.ratings[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRatingRepo) DeleteRatingsByUser(userId primitive.ObjectID) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	kept := r.ratings[:0]
	for _, rt := range r.ratings {
		if rt.UserId != userId {
			kept = append(kept, rt)
		}
	}
	r.ratings = kept
	return nil
}

func (r *fakeRatingRepo) GetTopRatedSeries(limit int64, minRatings int64) ([]model.TopRatedSerie, error) {
	return []model.TopRatedSerie{}, nil
}

func (r *fakeRatingRepo) GetTopReviewers(limit int64) ([]model.TopReviewer, error) {
	return []model.TopReviewer{}, nil
}

//------------------------------------------
//------------------------------------------

type fakeSeriesRepo struct {
	mux    sync.Mutex
	series map[primitive.ObjectID]*model.Serie
}

func newFakeSeriesRepo(series ...*model.Serie) *fakeSeriesRepo {
	r := &fakeSeriesRepo{series: make(map[primitive.ObjectID]*model.Serie)}
	for _, s := range series {
		if s.Id.IsZero() {
			s.Id = primitive.NewObjectID()
		}
		r.series[s.Id] = s
	}
	return r
}

func (r *fakeSeriesRepo) GetSeries(filter model.SerieFilter, skip int64, limit int64) ([]model.Serie, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.Serie, 0)
	for _, s := range r.series {
		if filter.Lgbtq && !s.IsLgbtq() {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return paginate(result, skip, limit), nil
}

func (r *fakeSeriesRepo) CountSeries(filter model.SerieFilter) (int64, error) {
	items, _ := r.GetSeries(filter, 0, 0)
	return int64(len(items)), nil
}

func (r *fakeSeriesRepo) GetSerieBySlug(slug string) (*model.Serie, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, s := range r.series {
		if s.Slug == slug {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeSeriesRepo) GetSerieById(id primitive.ObjectID) (*model.Serie, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if s, ok := r.series[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r *fakeSeriesRepo) CreateSerie(serie *model.Serie) (primitive.ObjectID, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, s := range r.series {
		if s.Slug == serie.Slug {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	serie.Id = primitive.NewObjectID()
	c := *serie
	r.series[serie.Id] = &c
	return serie.Id, nil
}

func (r *fakeSeriesRepo) UpdateSerie(serie *model.Serie) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if _, ok := r.series[serie.Id]; !ok {
		return false, nil
	}
	for id, s := range r.series {
		if id != serie.Id && s.Slug == serie.Slug {
			return false, repository.ErrDuplicateKey
		}
	}
	c := *serie
	r.series[serie.Id] = &c
	return true, nil
}

func (r *fakeSeriesRepo) DeleteSerie(id primitive.ObjectID) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	_, ok := r.series[id]
	delete(r.series, id)
	return ok, nil
}

//------------------------------------------
//------------------------------------------

type fakeAnalysisRepo struct {
	mux      sync.Mutex
	analyses []*model.Analysis
}

func (r *fakeAnalysisRepo) byKey(key string) *model.Analysis {
	id, err := primitive.ObjectIDFromHex(key)
	for _, a := range r.analyses {
		if (err == nil && a.Id == id) || (err != nil && a.Slug == key) {
			return a
		}
	}
	return nil
}

func (r *fakeAnalysisRepo) GetPublishedAnalyses(skip int64, limit int64) ([]model.Analysis, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.Analysis, 0)
	for _, a := range r.analyses {
		if a.Status == model.AnalysisPublished {
			result = append(result, *a)
		}
	}
	return paginate(result, skip, limit), nil
}

func (r *fakeAnalysisRepo) GetAllAnalyses(skip int64, limit int64) ([]model.Analysis, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.Analysis, 0)
	for _, a := range r.analyses {
		result = append(result, *a)
	}
	return paginate(result, skip, limit), nil
}

func (r *fakeAnalysisRepo) GetAnalysisBySlug(slug string) (*model.Analysis, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, a := range r.analyses {
		if a.Slug == slug {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeAnalysisRepo) GetAnalysisById(id primitive.ObjectID) (*model.Analysis, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if a := r.byKey(id.Hex()); a != nil {
		c := *a
		return &c, nil
	}
	return nil, nil
}

func (r *fakeAnalysisRepo) GetAnalysesBySerie(serieSlug string, limit int64) ([]model.Analysis, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.Analysis, 0)
	for _, a := range r.analyses {
		if a.SerieSlug == serieSlug || containsString(a.Tags, serieSlug) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *fakeAnalysisRepo) SearchAnalyses(query string, limit int64) ([]model.Analysis, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.Analysis, 0)
	for _, a := range r.analyses {
		if strings.Contains(strings.ToLower(a.Title), strings.ToLower(query)) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *fakeAnalysisRepo) CreateAnalysis(analysis *model.Analysis) (primitive.ObjectID, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, a := range r.analyses {
		if a.Slug == analysis.Slug {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	analysis.Id = primitive.NewObjectID()
	c := *analysis
	r.analyses = append(r.analyses, &c)
	return analysis.Id, nil
}

func (r *fakeAnalysisRepo) UpdateAnalysis(analysis *model.Analysis) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for i, a := range r.analyses {
		if a.Id == analysis.Id {
			c := *analysis
			r.analyses[i] = &c
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAnalysisRepo) DeleteAnalysis(id primitive.ObjectID) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for i, a := range r.analyses {
		if a.Id == id {
			r.analyses = append(r.analyses[:i], r.analyses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAnalysisRepo) IncrementCounter(key string, counter model.AnalysisCounter, delta int64) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	a := r.byKey(key)
	if a == nil {
		return false, nil
	}
	target := &a.Views
	if counter == model.AnalysisLikesCounter {
		target = &a.Likes
	}
	if *target+delta < 0 {
		return false, nil
	}
	*target += delta
	return true, nil
}

func (r *fakeAnalysisRepo) AnalysisExists(key string) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.byKey(key) != nil, nil
}

func (r *fakeAnalysisRepo) CountAnalyses(publishedOnly bool) (int64, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	var n int64
	for _, a := range r.analyses {
		if !publishedOnly || a.Status == model.AnalysisPublished {
			n++
		}
	}
	return n, nil
}

//------------------------------------------
//------------------------------------------

type fakeCommentRepo struct {
	mux      sync.Mutex
	comments []*model.Comment
}

func (r *fakeCommentRepo) CreateComment(comment *model.Comment) (primitive.ObjectID, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	comment.Id = primitive.NewObjectID()
	c := *comment
	r.comments = append(r.comments, &c)
	return comment.Id, nil
}

func (r *fakeCommentRepo) GetCommentById(id primitive.ObjectID) (*model.Comment, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, c := range r.comments {
		if c.Id == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCommentRepo) GetTopLevelComments(serieId primitive.ObjectID, skip int64, limit int64) ([]model.Comment, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.Comment, 0)
	for _, c := range r.comments {
		if c.SerieId == serieId && !c.IsReply() {
			result = append(result, *c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return paginate(result, skip, limit), nil
}

func (r *fakeCommentRepo) GetReplies(parentIds []primitive.ObjectID) ([]model.Comment, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.Comment, 0)
	for _, c := range r.comments {
		if c.IsReply() && containsId(parentIds, *c.ParentId) {
			result = append(result, *c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeCommentRepo) GetCommentsByUser(userId primitive.ObjectID, skip int64, limit int64) ([]model.Comment, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.Comment, 0)
	for _, c := range r.comments {
		if c.UserId == userId {
			result = append(result, *c)
		}
	}
	return paginate(result, skip, limit), nil
}

func (r *fakeCommentRepo) CountTopLevelComments(serieId primitive.ObjectID) (int64, error) {
	items, _ := r.GetTopLevelComments(serieId, 0, 0)
	return int64(len(items)), nil
}

func (r *fakeCommentRepo) CountComments(serieId *primitive.ObjectID) (int64, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	var n int64
	for _, c := range r.comments {
		if serieId == nil || c.SerieId == *serieId {
			n++
		}
	}
	return n, nil
}

func (r *fakeCommentRepo) ToggleCommentLike(id primitive.ObjectID, userId primitive.ObjectID) (bool, bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, c := range r.comments {
		if c.Id != id {
			continue
		}
		for i, l := range c.Likes {
			if l == userId {
				c.Likes = append(c.Likes[:i], c.Likes[i+1:]...)
				return false, true, nil
			}
		}
		c.Likes = append(c.Likes, userId)
		return true, true, nil
	}
	return false, false, nil
}

func (r *fakeCommentRepo) UpdateCommentContent(id primitive.ObjectID, content string) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, c := range r.comments {
		if c.Id == id {
			c.Content = content
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCommentRepo) DeleteCommentWithReplies(id primitive.ObjectID) (int64, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	var n int64
	kept := make([]*model.Comment, 0, len(r.comments))
	for _, c := range r.comments {
		if c.Id == id || (c.IsReply() && *c.ParentId == id) {
			n++
			continue
		}
		kept = append(kept, c)
	}
	r.comments = kept
	return n, nil
}

func (r *fakeCommentRepo) DeleteCommentsByUser(userId primitive.ObjectID) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	kept := make([]*model.Comment, 0, len(r.comments))
	for _, c := range r.comments {
		if c.UserId != userId {
			kept = append(kept, c)
		}
	}
	r.comments = kept
	return nil
}

//------------------------------------------
//------------------------------------------

type fakeChatRepo struct {
	mux      sync.Mutex
	messages []*model.ChatMessage
}

func (r *fakeChatRepo) CreateMessage(message *model.ChatMessage) (primitive.ObjectID, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	message.Id = primitive.NewObjectID()
	c := *message
	r.messages = append(r.messages, &c)
	return message.Id, nil
}

func (r *fakeChatRepo) GetMessageById(id primitive.ObjectID) (*model.ChatMessage, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, m := range r.messages {
		if m.Id == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeChatRepo) GetLatestMessages(limit int64, before *time.Time) ([]model.ChatMessage, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.ChatMessage, 0)
	for i := len(r.messages) - 1; i >= 0 && int64(len(result)) < limit; i-- {
		m := r.messages[i]
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		result = append(result, *m)
	}
	return result, nil
}

func (r *fakeChatRepo) UpdateMessageText(id primitive.ObjectID, text string) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, m := range r.messages {
		if m.Id == id {
			m.Message = text
			m.IsEdited = true
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeChatRepo) DeleteMessage(id primitive.ObjectID) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for i, m := range r.messages {
		if m.Id == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeChatRepo) DeleteMessagesByUser(userId primitive.ObjectID) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	kept := make([]*model.ChatMessage, 0, len(r.messages))
	for _, m := range r.messages {
		if m.UserId != userId || m.Type != model.ChatMessageNormal {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

func (r *fakeChatRepo) CountMessages(since *time.Time) (int64, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	var n int64
	for _, m := range r.messages {
		if since == nil || !m.CreatedAt.Before(*since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeChatRepo) CountActiveUsers(since time.Time) (int64, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	users := make(map[primitive.ObjectID]struct{})
	for _, m := range r.messages {
		if m.Type == model.ChatMessageNormal && !m.CreatedAt.Before(since) {
			users[m.UserId] = struct{}{}
		}
	}
	return int64(len(users)), nil
}

func (r *fakeChatRepo) TrimMessages(keep int64) (int64, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	excess := int64(len(r.messages)) - keep
	if excess <= 0 {
		return 0, nil
	}
	r.messages = r.messages[excess:]
	return excess, nil
}

func (r *fakeChatRepo) count() int {
	r.mux.Lock()
	defer r.mux.Unlock()
	return len(r.messages)
}

//------------------------------------------
//------------------------------------------

type fakeCache struct {
	mux     sync.Mutex
	revoked map[string]time.Duration
	stats   map[string]*model.RatingStats
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		revoked: make(map[string]time.Duration),
		stats:   make(map[string]*model.RatingStats),
	}
}

func (c *fakeCache) IsJwtRevoked(token string) bool {
	c.mux.Lock()
	defer c.mux.Unlock()
	_, ok := c.revoked[token]
	return ok
}

func (c *fakeCache) RevokeJwt(token string, duration time.Duration) error {
	c.mux.Lock()
	defer c.mux.Unlock()
	if duration > 0 {
		c.revoked[token] = duration
	}
	return nil
}

func (c *fakeCache) GetRatingStatsCache(serieSlug string) (*model.RatingStats, error) {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.stats[serieSlug], nil
}

func (c *fakeCache) SetRatingStatsCache(serieSlug string, stats *model.RatingStats) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.stats[serieSlug] = stats
}

func (c *fakeCache) RemoveRatingStatsCache(serieSlug string) {
	c.mux.Lock()
	defer c.mux.Unlock()
	delete(c.stats, serieSlug)
}

//------------------------------------------
//------------------------------------------

func paginate[T any](items []T, skip int64, limit int64) []T {
	if skip >= int64(len(items)) {
		return items[:0]
	}
	items = items[skip:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func containsId(list []primitive.ObjectID, value primitive.ObjectID) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

var (
	_ repository.IUserRepository     = (*fakeUserRepo)(nil)
	_ repository.IRatingRepository   = (*fakeRatingRepo)(nil)
	_ repository.ISeriesRepository   = (*fakeSeriesRepo)(nil)
	_ repository.IAnalysisRepository = (*fakeAnalysisRepo)(nil)
	_ repository.ICommentRepository  = (*fakeCommentRepo)(nil)
	_ repository.IChatRepository     = (*fakeChatRepo)(nil)
	_ ICacheService                  = (*fakeCache)(nil)
)

//------------------------------------------
//------------------------------------------

type fakeBlogRepo struct {
	mux   sync.Mutex
	posts []*model.BlogPost
}

var _ repository.IBlogRepository = (*fakeBlogRepo)(nil)

func (r *fakeBlogRepo) match(p *model.BlogPost, category model.BlogCategory, publishedOnly bool) bool {
	return (category == "" || p.Category == category) && (!publishedOnly || p.Published)
}

func (r *fakeBlogRepo) GetPosts(category model.BlogCategory, publishedOnly bool, skip int64, limit int64) ([]model.BlogPost, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	result := make([]model.BlogPost, 0)
	for _, p := range r.posts {
		if r.match(p, category, publishedOnly) {
			result = append(result, *p)
		}
	}
	return paginate(result, skip, limit), nil
}

func (r *fakeBlogRepo) CountPosts(category model.BlogCategory, publishedOnly bool) (int64, error) {
	items, _ := r.GetPosts(category, publishedOnly, 0, 0)
	return int64(len(items)), nil
}

func (r *fakeBlogRepo) GetPostBySlug(slug string, publishedOnly bool) (*model.BlogPost, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, p := range r.posts {
		if p.Slug == slug && (!publishedOnly || p.Published) {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeBlogRepo) GetPostById(id primitive.ObjectID) (*model.BlogPost, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, p := range r.posts {
		if p.Id == id {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeBlogRepo) CreatePost(post *model.BlogPost) (primitive.ObjectID, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, p := range r.posts {
		if p.Slug == post.Slug {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	post.Id = primitive.NewObjectID()
	c := *post
	r.posts = append(r.posts, &c)
	return post.Id, nil
}

func (r *fakeBlogRepo) UpdatePost(post *model.BlogPost) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for i, p := range r.posts {
		if p.Id == post.Id {
			c := *post
			r.posts[i] = &c
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBlogRepo) DeletePost(id primitive.ObjectID) (bool, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for i, p := range r.posts {
		if p.Id == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
