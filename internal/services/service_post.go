package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ualiu/neighbours-only/internal/models"
	"github.com/ualiu/neighbours-only/internal/moderation"
)

var (
	ErrTextRequired = errors.New("post text is required")
	ErrTextTooLong  = errors.New("post text must be 2000 characters or less")
)

// PostWriter persists a new post.
type PostWriter interface {
	Create(ctx context.Context, p *models.Post) error
}

// Moderator produces the verdict for a new post.
type Moderator interface {
	ModerateNewPost(ctx context.Context, text string, imageRef *string, userID bson.ObjectID) moderation.Verdict
}

type PostService struct {
	Posts     PostWriter
	Moderator Moderator
	Mapper    moderation.Mapper
	Now       func() time.Time
}

// CreatePost validates, moderates and inserts a post. The verdict is applied
// before the insert so the stored visibility is final from the first read.
func (s *PostService) CreatePost(ctx context.Context, author *models.User, text, imageURL string) (*models.Post, moderation.Verdict, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, moderation.Verdict{}, ErrTextRequired
	}
	if utf8.RuneCountInString(text) > models.MaxPostLength {
		return nil, moderation.Verdict{}, ErrTextTooLong
	}

	var imageRef *string
	if imageURL = strings.TrimSpace(imageURL); imageURL != "" {
		imageRef = &imageURL
	}

	verdict := s.Moderator.ModerateNewPost(ctx, text, imageRef, author.ID)

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ts := now().UTC()
	post := &models.Post{
		ID:             bson.NewObjectID(),
		UserID:         author.ID,
		NeighborhoodID: author.NeighborhoodID,
		Text:           text,
		ImageURL:       imageURL,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	s.Mapper.Apply(post, verdict, ts)

	if err := s.Posts.Create(ctx, post); err != nil {
		return nil, verdict, err
	}
	return post, verdict, nil
}
