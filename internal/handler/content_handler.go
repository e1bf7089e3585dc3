package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	contentService service.ContentService
}

func NewContentHandler(contentService service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func (h *ContentHandler) RegisterRoutes(router *gin.RouterGroup) {
	posts := router.Group("/api/posts")
	{
		posts.GET("", middleware.RequireAuth(), h.ListPosts)
		posts.GET("/:id", middleware.RequireAuth(), h.GetPost)
		posts.POST("", middleware.RequirePermission(model.PermCreatePost), h.CreatePost)
		posts.DELETE("/:id", middleware.RequirePermission(model.PermDeletePost), h.DeletePost)
		posts.GET("/:id/comments", middleware.RequireAuth(), h.ListComments)
		posts.POST("/:id/comments", middleware.RequireAuth(), h.AddComment)
		posts.POST("/:id/like", middleware.RequireAuth(), h.ToggleLike)
		posts.POST("/:id/favorite", middleware.RequireAuth(), h.ToggleFavorite)
	}

	router.GET("/api/favorites", middleware.RequireAuth(), h.ListFavorites)
}

// ListPosts returns the feed, newest first
// @Summary      List posts
// @Tags         content
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int     false  "Page number (default: 1)"
// @Param        limit  query  int     false  "Items per page (default: 20)"
// @Param        type   query  string  false  "Filter by type: feed, slider"
// @Success      200  {object}  response.Response
// @Router       /api/posts [get]
func (h *ContentHandler) ListPosts(c *gin.Context) {
	p := pagination.Parse(c)
	posts, total, err := h.contentService.ListPosts(c.Request.Context(), c.Query("type"), p.Page, p.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, posts, total, p.Page, p.Limit))
}

// GetPost returns one post with its counters
// @Summary      Get post
// @Tags         content
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/posts/{id} [get]
func (h *ContentHandler) GetPost(c *gin.Context) {
	post, err := h.contentService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, post))
}

// CreatePost publishes a feed or slider post
// @Summary      Create post
// @Tags         content
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePostRequest  true  "Post payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/posts [post]
func (h *ContentHandler) CreatePost(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
		return
	}

	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	post, err := h.contentService.CreatePost(c.Request.Context(), userID, req)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, post))
}

// DeletePost soft deletes a post
// @Summary      Delete post
// @Tags         content
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/posts/{id} [delete]
func (h *ContentHandler) DeletePost(c *gin.Context) {
	if err := h.contentService.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "post deleted"}))
}

// ListComments returns a post's comments, oldest first
// @Summary      List comments
// @Tags         content
// @Security     BearerAuth
// @Produce      json
// @Param        id     path   string  true   "Post ID"
// @Param        page   query  int     false  "Page number (default: 1)"
// @Param        limit  query  int     false  "Items per page (default: 20)"
// @Success      200  {object}  response.Response
// @Router       /api/posts/{id}/comments [get]
func (h *ContentHandler) ListComments(c *gin.Context) {
	p := pagination.Parse(c)
	comments, total, err := h.contentService.ListComments(c.Request.Context(), c.Param("id"), p.Page, p.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, comments, total, p.Page, p.Limit))
}

// AddComment adds a comment and bumps the post counter
// @Summary      Add comment
// @Tags         content
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Post ID"
// @Param        payload  body  service.CreateCommentRequest  true  "Comment payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/posts/{id}/comments [post]
func (h *ContentHandler) AddComment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
		return
	}

	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	comment, err := h.contentService.AddComment(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, comment))
}

// ToggleLike flips the caller's like on a post
// @Summary      Toggle like
// @Tags         content
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  response.Response
// @Router       /api/posts/{id}/like [post]
func (h *ContentHandler) ToggleLike(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
		return
	}

	result, err := h.contentService.ToggleLike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ToggleFavorite flips the caller's private bookmark on a post
// @Summary      Toggle favorite
// @Tags         content
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  response.Response
// @Router       /api/posts/{id}/favorite [post]
func (h *ContentHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
		return
	}

	result, err := h.contentService.ToggleFavorite(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListFavorites returns the posts the caller bookmarked
// @Summary      List favorites
// @Tags         content
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default: 1)"
// @Param        limit  query  int  false  "Items per page (default: 20)"
// @Success      200  {object}  response.Response
// @Router       /api/favorites [get]
func (h *ContentHandler) ListFavorites(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
		return
	}

	p := pagination.Parse(c)
	posts, total, err := h.contentService.ListFavorites(c.Request.Context(), userID, p.Page, p.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paged(http.StatusOK, posts, total, p.Page, p.Limit))
}
