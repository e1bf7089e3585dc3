package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	FindPostByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	ListPosts(ctx context.Context, postType string, page, limit int) ([]model.Post, int64, error)
	IncrementPostCounter(ctx context.Context, postID uuid.UUID, column string, delta int) error

	CreateComment(ctx context.Context, comment *model.Comment) error
	ListComments(ctx context.Context, postID uuid.UUID, page, limit int) ([]model.Comment, int64, error)

	FindInteraction(ctx context.Context, userID, postID uuid.UUID, interactionType string) (*model.UserInteraction, error)
	CreateInteraction(ctx context.Context, interaction *model.UserInteraction) error
	DeleteInteraction(ctx context.Context, id uuid.UUID) error
	ListFavoritePosts(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Post, int64, error)
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) CreatePost(ctx context.Context, post *model.Post) error {
	return GetDB(ctx, r.db).Create(post).Error
}

func (r *contentRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Post{}).Error
}

func (r *contentRepository) FindPostByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := GetDB(ctx, r.db).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *contentRepository) ListPosts(ctx context.Context, postType string, page, limit int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Post{})
	if postType != "" {
		db = db.Where("post_type = ?", postType)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *contentRepository) IncrementPostCounter(ctx context.Context, postID uuid.UUID, column string, delta int) error {
	return GetDB(ctx, r.db).Model(&model.Post{}).Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

func (r *contentRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	return GetDB(ctx, r.db).Create(comment).Error
}

func (r *contentRepository) ListComments(ctx context.Context, postID uuid.UUID, page, limit int) ([]model.Comment, int64, error) {
	var comments []model.Comment
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Comment{}).Where("post_id = ?", postID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).Where("post_id = ?", postID).
		Order("created_at asc").Offset(offset).Limit(limit).Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *contentRepository) FindInteraction(ctx context.Context, userID, postID uuid.UUID, interactionType string) (*model.UserInteraction, error) {
	var interaction model.UserInteraction
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND post_id = ? AND interaction_type = ?", userID, postID, interactionType).
		First(&interaction).Error
	if err != nil {
		return nil, err
	}
	return &interaction, nil
}

func (r *contentRepository) CreateInteraction(ctx context.Context, interaction *model.UserInteraction) error {
	return GetDB(ctx, r.db).Create(interaction).Error
}

func (r *contentRepository) DeleteInteraction(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.UserInteraction{}).Error
}

func (r *contentRepository) ListFavoritePosts(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	join := GetDB(ctx, r.db).Model(&model.Post{}).
		Joins("INNER JOIN user_interactions ON user_interactions.post_id = posts.id").
		Where("user_interactions.user_id = ? AND user_interactions.interaction_type = ?", userID, model.InteractionFavorite)

	if err := join.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := join.Order("user_interactions.created_at desc").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
