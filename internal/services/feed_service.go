package services

import (
	"context"
	"strings"

	"social-app/internal/images"
	"social-app/internal/models"
	"social-app/internal/repositories"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedService owns the post lifecycle. Reactions on posts live in
// ReactionService; this covers creation, listing and removal.
type FeedService struct {
	posts  repositories.PostRepository
	images images.Store
}

func NewFeedService(posts repositories.PostRepository, imageStore images.Store) *FeedService {
	return &FeedService{posts: posts, images: imageStore}
}

func (s *FeedService) CreatePost(ctx context.Context, creatorID primitive.ObjectID, req models.CreatePostRequest) (*models.Post, error) {
	if strings.TrimSpace(req.Content) == "" && req.ImagePath == "" {
		return nil, ErrEmptyContent
	}

	post := &models.Post{
		CreatorID: creatorID,
		Content:   req.Content,
	}
	if req.ImagePath != "" {
		uploaded, err := s.images.Upload(ctx, req.ImagePath)
		if err != nil {
			return nil, err
		}
		post.Image = &models.ImageRef{URL: uploaded.URL, ID: uploaded.ID}
	}

	return s.posts.CreatePost(ctx, post)
}

func (s *FeedService) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	return s.posts.GetPostByID(ctx, postID)
}

func (s *FeedService) ListPosts(ctx context.Context, page, limit int64) (*models.PostListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	posts, total, err := s.posts.ListPosts(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &models.PostListResponse{
		Posts: posts,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// DeletePost releases every image under the post: the post's own, each
// comment's and each reply's.
func (s *FeedService) DeletePost(ctx context.Context, actorID, postID primitive.ObjectID) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.CreatorID != actorID {
		return ErrNotAuthorized
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return err
	}

	s.release(ctx, post.Image)
	for _, comment := range post.Comments {
		s.release(ctx, comment.Image)
		for _, reply := range comment.Replies {
			s.release(ctx, reply.Image)
		}
	}
	return nil
}

func (s *FeedService) release(ctx context.Context, ref *models.ImageRef) {
	if ref == nil || ref.ID == "" {
		return
	}
	if err := s.images.Remove(ctx, ref.ID); err != nil {
		log.Warn().Err(err).Str("image_id", ref.ID).Msg("failed to release image")
	}
}
