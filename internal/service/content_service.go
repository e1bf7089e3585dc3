package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreatePostRequest struct {
	PostType string `json:"post_type" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type ToggleResult struct {
	Active bool `json:"active"`
}

// --- Interface ---

// ContentService manages the feed: posts, comments and like/favorite toggles.
// Post counters change in the same transaction as the interaction rows.
type ContentService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, req CreatePostRequest) (*model.Post, error)
	DeletePost(ctx context.Context, id string) error
	GetPost(ctx context.Context, id string) (*model.Post, error)
	ListPosts(ctx context.Context, postType string, page, limit int) ([]model.Post, int64, error)

	AddComment(ctx context.Context, authorID uuid.UUID, postID string, req CreateCommentRequest) (*model.Comment, error)
	ListComments(ctx context.Context, postID string, page, limit int) ([]model.Comment, int64, error)

	ToggleLike(ctx context.Context, userID uuid.UUID, postID string) (*ToggleResult, error)
	ToggleFavorite(ctx context.Context, userID uuid.UUID, postID string) (*ToggleResult, error)
	ListFavorites(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Post, int64, error)
}

type contentService struct {
	repo repository.ContentRepository
	txm  repository.TransactionManager
}

func NewContentService(repo repository.ContentRepository, txm repository.TransactionManager) ContentService {
	return &contentService{repo: repo, txm: txm}
}

// --- Implementation ---

func (s *contentService) CreatePost(ctx context.Context, authorID uuid.UUID, req CreatePostRequest) (*model.Post, error) {
	if req.PostType != model.PostTypeFeed && req.PostType != model.PostTypeSlider {
		return nil, apperr.Validation("post_type must be '%s' or '%s'", model.PostTypeFeed, model.PostTypeSlider)
	}

	post := model.Post{
		PostType: req.PostType,
		Content:  req.Content,
		AuthorID: authorID,
	}
	if err := s.repo.CreatePost(ctx, &post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return &post, nil
}

func (s *contentService) DeletePost(ctx context.Context, id string) error {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePost(ctx, post.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (s *contentService) GetPost(ctx context.Context, id string) (*model.Post, error) {
	return s.findPost(ctx, id)
}

func (s *contentService) ListPosts(ctx context.Context, postType string, page, limit int) ([]model.Post, int64, error) {
	if postType != "" && postType != model.PostTypeFeed && postType != model.PostTypeSlider {
		return nil, 0, apperr.Validation("post_type must be '%s' or '%s'", model.PostTypeFeed, model.PostTypeSlider)
	}
	posts, total, err := s.repo.ListPosts(ctx, postType, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch posts: %w", err)
	}
	return posts, total, nil
}

func (s *contentService) AddComment(ctx context.Context, authorID uuid.UUID, postID string, req CreateCommentRequest) (*model.Comment, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := model.Comment{
		PostID:   post.ID,
		AuthorID: authorID,
		Content:  req.Content,
	}
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateComment(txCtx, &comment); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		if err := s.repo.IncrementPostCounter(txCtx, post.ID, "comments", 1); err != nil {
			return fmt.Errorf("failed to bump comment counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *contentService) ListComments(ctx context.Context, postID string, page, limit int) ([]model.Comment, int64, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	comments, total, err := s.repo.ListComments(ctx, post.ID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch comments: %w", err)
	}
	return comments, total, nil
}

func (s *contentService) ToggleLike(ctx context.Context, userID uuid.UUID, postID string) (*ToggleResult, error) {
	return s.toggle(ctx, userID, postID, model.InteractionLike, "likes")
}

func (s *contentService) ToggleFavorite(ctx context.Context, userID uuid.UUID, postID string) (*ToggleResult, error) {
	// Favorites are private bookmarks; no counter to maintain.
	return s.toggle(ctx, userID, postID, model.InteractionFavorite, "")
}

func (s *contentService) ListFavorites(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Post, int64, error) {
	posts, total, err := s.repo.ListFavoritePosts(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch favorites: %w", err)
	}
	return posts, total, nil
}

// --- Helpers ---

func (s *contentService) toggle(ctx context.Context, userID uuid.UUID, postID, interactionType, counter string) (*ToggleResult, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindInteraction(ctx, userID, post.ID, interactionType)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check interaction: %w", err)
	}

	var active bool
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if existing != nil {
			if err := s.repo.DeleteInteraction(txCtx, existing.ID); err != nil {
				return fmt.Errorf("failed to remove interaction: %w", err)
			}
			if counter != "" {
				if err := s.repo.IncrementPostCounter(txCtx, post.ID, counter, -1); err != nil {
					return fmt.Errorf("failed to decrement counter: %w", err)
				}
			}
			active = false
			return nil
		}

		interaction := model.UserInteraction{
			UserID:          userID,
			PostID:          post.ID,
			InteractionType: interactionType,
		}
		if err := s.repo.CreateInteraction(txCtx, &interaction); err != nil {
			return fmt.Errorf("failed to create interaction: %w", err)
		}
		if counter != "" {
			if err := s.repo.IncrementPostCounter(txCtx, post.ID, counter, 1); err != nil {
				return fmt.Errorf("failed to increment counter: %w", err)
			}
		}
		active = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Active: active}, nil
}

func (s *contentService) findPost(ctx context.Context, id string) (*model.Post, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid post id: %s", id)
	}
	post, err := s.repo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("post %s not found", id)
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return post, nil
}
