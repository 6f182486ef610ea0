package post

import (
	"context"
	"fmt"
	"strings"
	"time"

	"uk.co.dudmesh.blogger/internal/model"
)

type Store interface {
	AccountByID(ctx context.Context, id model.AccountID) (*model.Account, error)
	CreatePost(ctx context.Context, post *model.Post) error
	PostByID(ctx context.Context, id model.PostID) (*model.Post, error)
	ListPosts(ctx context.Context) ([]*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id model.PostID) error
}

type service struct {
	store Store
	now   func() time.Time
}

func New(store Store) *service {
	return &service{
		store: store,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// IsOwner reports whether the visitor holding session may change post.
func IsOwner(session model.Session, post *model.Post) bool {
	if post == nil {
		return false
	}
	id, ok := session.CurrentAccount()
	if !ok {
		return false
	}
	return id == post.AccountID
}

func (s *service) IsOwner(session model.Session, post *model.Post) bool {
	return IsOwner(session, post)
}

// Create stores a new post owned by the session's account. The account must
// still exist.
func (s *service) Create(ctx context.Context, session model.Session, params *model.PostParams) (*model.Post, error) {
	id, ok := session.CurrentAccount()
	if !ok {
		return nil, model.ErrorUnauthenticated
	}

	account, err := s.store.AccountByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching account: %w", err)
	}
	if account == nil {
		return nil, model.ErrorUnauthenticated
	}

	if strings.TrimSpace(params.Title) == "" {
		return nil, model.ErrorMissingField
	}

	now := s.now()
	post := &model.Post{
		AccountID: account.ID,
		Author:    account.Username,
		Title:     params.Title,
		Content:   params.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	return post, nil
}

// Get returns nil without an error when the post does not exist.
func (s *service) Get(ctx context.Context, id model.PostID) (*model.Post, error) {
	post, err := s.store.PostByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching post: %w", err)
	}
	return post, nil
}

func (s *service) List(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// Editable returns the post if the session may change it.
func (s *service) Editable(ctx context.Context, session model.Session, id model.PostID) (*model.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, model.ErrorNotFound
	}
	if !IsOwner(session, post) {
		if !session.LoggedIn {
			return nil, model.ErrorUnauthenticated
		}
		return nil, model.ErrorUnauthorized
	}
	return post, nil
}

// Update replaces title and content and refreshes the update time. The post's
// id, owner and creation time are kept.
func (s *service) Update(ctx context.Context, session model.Session, id model.PostID, params *model.PostParams) (*model.Post, error) {
	post, err := s.Editable(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, model.ErrorMissingField
	}

	post.Title = params.Title
	post.Content = params.Content
	post.UpdatedAt = s.now()
	if err := s.store.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}

	return post, nil
}

func (s *service) Delete(ctx context.Context, session model.Session, id model.PostID) error {
	if _, err := s.Editable(ctx, session, id); err != nil {
		return err
	}
	if err := s.store.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}
