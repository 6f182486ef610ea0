package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"uk.co.dudmesh.blogger/internal/model"
)

const selectPost = `select p.id, p.account_id, a.username as author, p.title, p.content, p.created_at, p.updated_at
	from posts p
	join accounts a on a.id = p.account_id`

func (s *Store) CreatePost(ctx context.Context, post *model.Post) error {
	query := s.db.Rebind(`insert into posts
		(account_id, title, content, created_at, updated_at)
		values(?, ?, ?, ?, ?)
		returning id`)

	err := s.db.QueryRowxContext(ctx, query,
		post.AccountID, post.Title, post.Content, post.CreatedAt, post.UpdatedAt,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}

	return nil
}

// PostByID returns nil without an error when the post does not exist.
func (s *Store) PostByID(ctx context.Context, id model.PostID) (*model.Post, error) {
	post := &model.Post{}
	err := s.db.GetContext(ctx, post, s.db.Rebind(selectPost+` where p.id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching post: %w", err)
	}
	return post, nil
}

func (s *Store) ListPosts(ctx context.Context) ([]*model.Post, error) {
	posts := []*model.Post{}
	if err := s.db.SelectContext(ctx, &posts, selectPost+` order by p.id`); err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// UpdatePost writes title, content and updated_at only. Owner and creation
// time are never touched.
func (s *Store) UpdatePost(ctx context.Context, post *model.Post) error {
	res, err := s.db.NamedExecContext(ctx, `update posts
		set title = :title, content = :content, updated_at = :updated_at
		where id = :id`, post)
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}
	return expectOneRow(res)
}

func (s *Store) DeletePost(ctx context.Context, id model.PostID) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`delete from posts where id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return expectOneRow(res)
}
