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

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
}

func (in PostInput) trimmed() PostInput {
	return PostInput{
		Title:    strings.TrimSpace(in.Title),
		Subtitle: strings.TrimSpace(in.Subtitle),
		Body:     in.Body,
		ImgURL:   strings.TrimSpace(in.ImgURL),
	}
}

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	policy      auth.Policy
	log         *logrus.Logger
	opts        options
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, policy auth.Policy, log *logrus.Logger, opts ...Option) *PostService {
	if log == nil {
		log = logrus.New()
	}
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		policy:      policy,
		log:         log,
		opts:        buildOptions(opts),
	}
}

// ListPosts returns every post in the order it was written
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetPost retrieves a post by ID with its comments and their authors
func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", id))
	}

	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	post.Comments = nil
	for _, c := range comments {
		if err := post.AddComment(c); err != nil {
			return nil, err
		}
	}

	return post, nil
}

// CreatePost publishes a new post authored by the acting identity
func (s *PostService) CreatePost(ctx context.Context, actor auth.Identity, in PostInput) (*models.Post, error) {
	if err := s.authorize(actor, auth.CreatePost); err != nil {
		return nil, err
	}

	in = in.trimmed()
	post := &models.Post{
		AuthorID: actor.ID,
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Body:     in.Body,
		ImgURL:   in.ImgURL,
		Date:     s.opts.now().Format(models.PostDateLayout),
	}
	if err := post.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.checkTitle(ctx, post.Title, 0); err != nil {
		return nil, err
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateTitle
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"post_id": post.ID,
		"user_id": actor.ID,
		"title":   post.Title,
	}).Info("Post created")
	return post, nil
}

// UpdatePost overlays the submitted fields. ID, author and date stay as they were.
func (s *PostService) UpdatePost(ctx context.Context, actor auth.Identity, id int, in PostInput) (*models.Post, error) {
	if err := s.authorize(actor, auth.EditPost); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", id))
	}

	in = in.trimmed()
	post.Overlay(in.Title, in.Subtitle, in.Body, in.ImgURL)
	if err := post.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.checkTitle(ctx, post.Title, post.ID); err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, ErrDuplicateTitle
		case errors.Is(err, repositories.ErrNotFound):
			return nil, notFound(err, fmt.Sprintf("post %d", id))
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"post_id": post.ID,
		"user_id": actor.ID,
	}).Info("Post updated")
	return post, nil
}

// DeletePost deletes a post and all its comments
func (s *PostService) DeletePost(ctx context.Context, actor auth.Identity, id int) error {
	if err := s.authorize(actor, auth.DeletePost); err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, fmt.Sprintf("post %d", id))
	}
	if err := s.postRepo.Delete(ctx, post); err != nil {
		return notFound(err, fmt.Sprintf("post %d", id))
	}

	s.log.WithFields(logrus.Fields{
		"post_id": id,
		"user_id": actor.ID,
	}).Info("Post deleted")
	return nil
}

func (s *PostService) authorize(actor auth.Identity, action auth.Action) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if s.policy == nil || !s.policy.Allows(actor, action) {
		s.log.WithFields(logrus.Fields{
			"user_id": actor.ID,
			"action":  action,
		}).Warn("Unauthorized post action")
		return ErrUnauthorized
	}
	return nil
}

// checkTitle is a fast-path duplicate check. except is the post being edited.
func (s *PostService) checkTitle(ctx context.Context, title string, except int) error {
	existing, err := s.postRepo.GetByTitle(ctx, title)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to look up title: %w", err)
	case existing.ID != except:
		return ErrDuplicateTitle
	}
	return nil
}
