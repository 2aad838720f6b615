package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"soriblog/app/auth"
	"soriblog/app/models"
	"soriblog/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	policy      auth.Policy
	log         *logrus.Logger
	opts        options
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, policy auth.Policy, log *logrus.Logger, opts ...Option) *CommentService {
	if log == nil {
		log = logrus.New()
	}
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		policy:      policy,
		log:         log,
		opts:        buildOptions(opts),
	}
}

// AddComment stores a comment by actor on an existing post
func (s *CommentService) AddComment(ctx context.Context, actor auth.Identity, postID int, text string) (*models.Comment, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if s.policy != nil && !s.policy.Allows(actor, auth.Comment) {
		return nil, ErrUnauthorized
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", postID))
	}

	comment := &models.Comment{
		AuthorID: actor.ID,
		Text:     strings.TrimSpace(text),
		Date:     s.opts.now().Format(models.CommentDateLayout),
	}
	if err := comment.SetPost(post); err != nil {
		return nil, err
	}
	if err := comment.Validate(); err != nil {
		return nil, invalid(err)
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound(err, fmt.Sprintf("post %d", postID))
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"comment_id": comment.ID,
		"post_id":    postID,
		"user_id":    actor.ID,
	}).Info("Comment added")
	return comment, nil
}
