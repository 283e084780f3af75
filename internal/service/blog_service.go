package service

import (
	"errors"
	"time"

	"series_guide/internal/repository"
	"series_guide/model"
	errorHandler "series_guide/pkg/error"
	"series_guide/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IBlogService interface {
	ListPublished(category model.BlogCategory, page int64, limit int64) (*model.PaginatedResult[model.BlogPost], error)
	ListAll(page int64, limit int64) (*model.PaginatedResult[model.BlogPost], error)
	CountPublished(category model.BlogCategory) (int64, error)
	GetBySlug(slug string) (*model.BlogPost, error)
	GetById(id string) (*model.BlogPost, error)
	CreatePost(req *model.BlogPostReq) (*model.BlogPost, error)
	UpdatePost(id string, req *model.BlogPostReq) (*model.BlogPost, error)
	DeletePost(id string) error
}

type BlogService struct {
	blogRepo repository.IBlogRepository
}

func NewBlogService(blogRepo repository.IBlogRepository) *BlogService {
	return &BlogService{blogRepo: blogRepo}
}

//------------------------------------------
//------------------------------------------

// ListPublished lists published posts, newest publication first. An empty
// category means every category.
func (s *BlogService) ListPublished(category model.BlogCategory, page int64, limit int64) (*model.PaginatedResult[model.BlogPost], error) {
	if category != "" && !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	return s.list(category, true, page, limit)
}

func (s *BlogService) ListAll(page int64, limit int64) (*model.PaginatedResult[model.BlogPost], error) {
	return s.list("", false, page, limit)
}

func (s *BlogService) list(category model.BlogCategory, publishedOnly bool, page int64, limit int64) (*model.PaginatedResult[model.BlogPost], error) {
	page, limit, skip := pageBounds(page, limit)
	posts, err := s.blogRepo.GetPosts(category, publishedOnly, skip, limit)
	if err != nil {
		errorHandler.SaveError("error on listing blog posts", err)
		return nil, ErrServer
	}
	total, err := s.blogRepo.CountPosts(category, publishedOnly)
	if err != nil {
		errorHandler.SaveError("error on counting blog posts", err)
		return nil, ErrServer
	}
	return &model.PaginatedResult[model.BlogPost]{
		Items:      posts,
		Pagination: model.NewPagination(page, limit, total),
	}, nil
}

func (s *BlogService) CountPublished(category model.BlogCategory) (int64, error) {
	if category != "" && !category.IsValid() {
		return 0, ErrInvalidCategory
	}
	count, err := s.blogRepo.CountPosts(category, true)
	if err != nil {
		errorHandler.SaveError("error on counting blog posts", err)
		return 0, ErrServer
	}
	return count, nil
}

func (s *BlogService) GetBySlug(slug string) (*model.BlogPost, error) {
	post, err := s.blogRepo.GetPostBySlug(slug, true)
	if err != nil {
		errorHandler.SaveError("error on getting blog post", err)
		return nil, ErrServer
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *BlogService) GetById(id string) (*model.BlogPost, error) {
	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidId
	}
	post, err := s.blogRepo.GetPostById(objectId)
	if err != nil {
		errorHandler.SaveError("error on getting blog post", err)
		return nil, ErrServer
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

//------------------------------------------
//------------------------------------------

func (s *BlogService) CreatePost(req *model.BlogPostReq) (*model.BlogPost, error) {
	post, err := preparePost(req)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Published {
		post.PublishedAt = &now
	}

	if _, err = s.blogRepo.CreatePost(post); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		errorHandler.SaveError("error on creating blog post", err)
		return nil, ErrServer
	}
	return post, nil
}

// UpdatePost replaces the editable fields. Publishing stamps publishedAt
// only when the post never had one.
func (s *BlogService) UpdatePost(id string, req *model.BlogPostReq) (*model.BlogPost, error) {
	existing, err := s.GetById(id)
	if err != nil {
		return nil, err
	}
	post, err := preparePost(req)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	post.Id = existing.Id
	post.CreatedAt = existing.CreatedAt
	post.UpdatedAt = now
	post.PublishedAt = existing.PublishedAt
	if post.Published && post.PublishedAt == nil {
		post.PublishedAt = &now
	}

	found, err := s.blogRepo.UpdatePost(post)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		errorHandler.SaveError("error on updating blog post", err)
		return nil, ErrServer
	}
	if !found {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *BlogService) DeletePost(id string) error {
	objectId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidId
	}
	deleted, err := s.blogRepo.DeletePost(objectId)
	if err != nil {
		errorHandler.SaveError("error on deleting blog post", err)
		return ErrServer
	}
	if !deleted {
		return ErrPostNotFound
	}
	return nil
}

func preparePost(req *model.BlogPostReq) (*model.BlogPost, error) {
	if !req.Category.IsValid() {
		return nil, ErrInvalidCategory
	}
	post := req.ToBlogPost()
	post.Slug = util.Slugify(firstNonEmpty(post.Slug, post.Title))
	if post.Slug == "" {
		return nil, ErrMissingSlug
	}
	return post, nil
}
