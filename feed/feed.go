// Package feed owns the announcement feed and its denormalized interaction
// counters. reacts_count and comments_count are only ever written through
// the Tx operations here, inside the same transaction that touches the
// child reaction/comment rows, so the counters cannot drift from their
// source collections under concurrent writers.
package feed

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/hoa-backoffice-go/apperr"
	"github.com/phillip/hoa-backoffice-go/auth"
	"github.com/phillip/hoa-backoffice-go/models"
)

// DefaultAuthorName is used when neither a role, a member record nor a
// caller-supplied name is available.
const DefaultAuthorName = "HOA Member"

// Tx is the single writer path for the denormalized counters. Every method
// runs inside one store transaction: reads see a consistent snapshot and
// all writes commit atomically or not at all.
type Tx interface {
	GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error)
	FindReaction(ctx context.Context, postID primitive.ObjectID, userID string) (*models.Reaction, error)
	InsertReaction(ctx context.Context, r *models.Reaction) error
	DeleteReaction(ctx context.Context, postID primitive.ObjectID, userID string) error
	InsertComment(ctx context.Context, c *models.Comment) error
	IncrementCounts(ctx context.Context, postID primitive.ObjectID, reactsDelta, commentsDelta int) error
	DeletePostTree(ctx context.Context, postID primitive.ObjectID) error
}

// Store is the document-store surface the feed needs. RunTransaction
// retries fn on write conflict; fn must therefore be safe to re-execute
// from its first read. Find* lookups return (nil, nil) when absent.
type Store interface {
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error)
	InsertPost(ctx context.Context, p *models.Post) error
	UpdatePostFields(ctx context.Context, postID primitive.ObjectID, content, category *string, pinned *bool) error
	ListPosts(ctx context.Context, category string) ([]models.Post, error)
	ListComments(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error)
	FindAdminByUID(ctx context.Context, uid string) (*models.Admin, error)
	FindMemberByUID(ctx context.Context, uid string) (*models.Member, error)
}

// MediaStorage uploads and deletes feed media blobs.
type MediaStorage interface {
	UploadPostMedia(userID, mediaType string, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
	Delete(blobURL string) error
}

// Service is the interaction-counter subsystem plus the plain post CRUD
// around it.
type Service struct {
	store Store
	media MediaStorage
	log   zerolog.Logger
}

func NewService(store Store, media MediaStorage, log zerolog.Logger) *Service {
	return &Service{store: store, media: media, log: log}
}

// ResolveDisplayName picks the name shown on posts, comments and
// reactions: an admin role label wins, then the member's registered name,
// then the caller-supplied fallback, then a fixed default.
func (s *Service) ResolveDisplayName(ctx context.Context, uid, fallback string) (string, error) {
	admin, err := s.store.FindAdminByUID(ctx, uid)
	if err != nil {
		return "", err
	}
	if admin != nil && admin.RoleLabel != "" {
		return admin.RoleLabel, nil
	}

	member, err := s.store.FindMemberByUID(ctx, uid)
	if err != nil {
		return "", err
	}
	if member != nil {
		if name := member.DisplayName(); name != "" {
			return name, nil
		}
	}

	if fallback != "" {
		return fallback, nil
	}
	return DefaultAuthorName, nil
}

// CreatePostInput carries a new feed entry. Media is optional; MediaType
// must be image or video when media is attached.
type CreatePostInput struct {
	Category    string
	Content     string
	Media       multipart.File
	MediaHeader *multipart.FileHeader
	MediaType   string
}

// CreatePost uploads the media first when present, then writes the post
// with both counters at zero.
func (s *Service) CreatePost(ctx context.Context, user auth.UserContext, in CreatePostInput) (*models.Post, error) {
	if in.Content == "" && in.Media == nil {
		return nil, apperr.Validation("content", "required")
	}
	if in.Media != nil && in.MediaType != models.MediaTypeImage && in.MediaType != models.MediaTypeVideo {
		return nil, apperr.Validation("media_type", "must be image or video")
	}

	authorName, err := s.ResolveDisplayName(ctx, user.UID, user.DisplayName)
	if err != nil {
		return nil, err
	}

	mediaURL := ""
	mediaType := ""
	if in.Media != nil {
		mediaURL, err = s.media.UploadPostMedia(user.UID, in.MediaType, in.Media, in.MediaHeader)
		if err != nil {
			filename := ""
			if in.MediaHeader != nil {
				filename = in.MediaHeader.Filename
			}
			return nil, &apperr.UploadError{Filename: filename, Err: err}
		}
		mediaType = in.MediaType
	}

	now := time.Now()
	post := &models.Post{
		AuthorID:    user.UID,
		AuthorName:  authorName,
		AuthorPhoto: user.PhotoURL,
		Category:    in.Category,
		Content:     in.Content,
		MediaURL:    mediaURL,
		MediaType:   mediaType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertPost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns the feed, optionally filtered by category. Pinned posts
// come first, then newest first.
func (s *Service) ListPosts(ctx context.Context, category string) ([]models.Post, error) {
	return s.store.ListPosts(ctx, category)
}

// GetPost returns a single post.
func (s *Service) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperr.ErrNotFound
	}
	return post, nil
}

// UpdatePostInput holds the editable post fields. Nil means leave as-is.
type UpdatePostInput struct {
	Content  *string
	Category *string
	Pinned   *bool
}

// UpdatePost edits content/category (author or admin) and the pinned flag
// (admin only). It never touches the counters.
func (s *Service) UpdatePost(ctx context.Context, user auth.UserContext, postID primitive.ObjectID, in UpdatePostInput) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if !user.IsAdmin && post.AuthorID != user.UID {
		return apperr.ErrForbidden
	}
	if in.Pinned != nil && !user.IsAdmin {
		return apperr.ErrForbidden
	}
	if in.Content == nil && in.Category == nil && in.Pinned == nil {
		return apperr.Validation("post", "no fields to update")
	}
	return s.store.UpdatePostFields(ctx, postID, in.Content, in.Category, in.Pinned)
}

// ToggleReaction flips the caller's reaction on a post. The read, the
// branch and both writes happen inside one transaction: two concurrent
// toggles by the same user cannot both observe "absent" and both
// increment, and a retried transaction re-reads before branching so it can
// never double-apply. Returns the caller's state after the toggle.
func (s *Service) ToggleReaction(ctx context.Context, user auth.UserContext, postID primitive.ObjectID) (bool, error) {
	authorName, err := s.ResolveDisplayName(ctx, user.UID, user.DisplayName)
	if err != nil {
		return false, err
	}

	reacted := false
	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		post, err := tx.GetPost(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return apperr.ErrNotFound
		}

		existing, err := tx.FindReaction(ctx, postID, user.UID)
		if err != nil {
			return err
		}

		if existing != nil {
			if err := tx.DeleteReaction(ctx, postID, user.UID); err != nil {
				return err
			}
			reacted = false
			return tx.IncrementCounts(ctx, postID, -1, 0)
		}

		reaction := &models.Reaction{
			PostID:     postID,
			UserID:     user.UID,
			AuthorName: authorName,
			PhotoURL:   user.PhotoURL,
			CreatedAt:  time.Now(),
		}
		if err := tx.InsertReaction(ctx, reaction); err != nil {
			return err
		}
		reacted = true
		return tx.IncrementCounts(ctx, postID, 1, 0)
	})
	if err != nil {
		return false, err
	}
	return reacted, nil
}

// AddComment appends a comment and bumps comments_count in the same
// transaction. Comments are append-only; there is no decrement path.
func (s *Service) AddComment(ctx context.Context, user auth.UserContext, postID primitive.ObjectID, content string) (*models.Comment, error) {
	if content == "" {
		return nil, apperr.Validation("content", "required")
	}

	authorName, err := s.ResolveDisplayName(ctx, user.UID, user.DisplayName)
	if err != nil {
		return nil, err
	}

	var comment *models.Comment
	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		post, err := tx.GetPost(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return apperr.ErrNotFound
		}

		comment = &models.Comment{
			PostID:     postID,
			UserID:     user.UID,
			AuthorName: authorName,
			Content:    content,
			PhotoURL:   user.PhotoURL,
			CreatedAt:  time.Now(),
		}
		if err := tx.InsertComment(ctx, comment); err != nil {
			return err
		}
		return tx.IncrementCounts(ctx, postID, 0, 1)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a post's comments oldest first.
func (s *Service) ListComments(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	return s.store.ListComments(ctx, postID)
}

// DeletePost removes the post and all of its comment and reaction children
// in one transaction, then tries to remove the attached media blob. The
// blob delete is best effort: a failure is logged and the already-committed
// deletion stands.
func (s *Service) DeletePost(ctx context.Context, user auth.UserContext, postID primitive.ObjectID) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if !user.IsAdmin && post.AuthorID != user.UID {
		return apperr.ErrForbidden
	}

	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		return tx.DeletePostTree(ctx, postID)
	})
	if err != nil {
		return err
	}

	if post.MediaURL != "" {
		if err := s.media.Delete(post.MediaURL); err != nil {
			s.log.Warn().Err(err).Str("post_id", postID.Hex()).Str("media_url", post.MediaURL).
				Msg("orphaned media blob after post delete")
		}
	}
	return nil
}
