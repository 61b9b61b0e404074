package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/hoa-backoffice-go/feed"
	"github.com/phillip/hoa-backoffice-go/middleware"
	"github.com/phillip/hoa-backoffice-go/models"
	"github.com/phillip/hoa-backoffice-go/utils"
)

func postIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return primitive.NilObjectID, false
	}
	return oid, true
}

// ---------------- CREATE ----------------
func CreatePost(svc *feed.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var input struct {
			Category  string `form:"category"`
			Content   string `form:"content"`
			MediaType string `form:"media_type"` // image or video, required with media
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := feed.CreatePostInput{
			Category:  input.Category,
			Content:   input.Content,
			MediaType: input.MediaType,
		}

		if fileHeader, err := c.FormFile("media"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
				return
			}
			defer file.Close()
			in.Media = file
			in.MediaHeader = fileHeader
		}

		post, err := svc.CreatePost(c.Request.Context(), user, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, post)
	}
}

// ---------------- LIST ----------------
func ListPosts(svc *feed.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, err := svc.ListPosts(c.Request.Context(), c.Query("category"))
		if err != nil {
			respondError(c, err)
			return
		}
		if posts == nil {
			posts = []models.Post{}
		}
		c.JSON(http.StatusOK, posts)
	}
}

// ---------------- GET ----------------
func GetPost(svc *feed.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, ok := postIDParam(c)
		if !ok {
			return
		}
		post, err := svc.GetPost(c.Request.Context(), oid)
		if err != nil {
			respondError(c, err)
			return
		}

		etag := utils.GenerateETag(post.ID, post.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, post)
	}
}

// ---------------- UPDATE ----------------
func UpdatePost(svc *feed.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, ok := postIDParam(c)
		if !ok {
			return
		}

		var input struct {
			Content  *string `json:"content"`
			Category *string `json:"category"`
			Pinned   *bool   `json:"pinned"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err := svc.UpdatePost(c.Request.Context(), middleware.CurrentUser(c), oid, feed.UpdatePostInput{
			Content:  input.Content,
			Category: input.Category,
			Pinned:   input.Pinned,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "post updated", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
func DeletePost(svc *feed.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, ok := postIDParam(c)
		if !ok {
			return
		}

		if err := svc.DeletePost(c.Request.Context(), middleware.CurrentUser(c), oid); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "post deleted", "id": oid.Hex()})
	}
}

// ---------------- TOGGLE REACTION ----------------
func ToggleReaction(svc *feed.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, ok := postIDParam(c)
		if !ok {
			return
		}

		reacted, err := svc.ToggleReaction(c.Request.Context(), middleware.CurrentUser(c), oid)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reacted": reacted})
	}
}

// ---------------- COMMENTS ----------------
func AddComment(svc *feed.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, ok := postIDParam(c)
		if !ok {
			return
		}

		var input struct {
			Content string `json:"content" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		comment, err := svc.AddComment(c.Request.Context(), middleware.CurrentUser(c), oid, input.Content)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, comment)
	}
}

func ListComments(svc *feed.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, ok := postIDParam(c)
		if !ok {
			return
		}

		comments, err := svc.ListComments(c.Request.Context(), oid)
		if err != nil {
			respondError(c, err)
			return
		}
		if comments == nil {
			comments = []models.Comment{}
		}
		c.JSON(http.StatusOK, comments)
	}
}
