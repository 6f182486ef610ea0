package model

import "time"

type PostID int64

type PostParams struct {
	Title   string `form:"title"`
	Content string `form:"content"`
}

// Post is owned by exactly one account for its whole life. Author is the
// owner's username, filled in by reads and ignored by writes.
type Post struct {
	ID        PostID    `db:"id"`
	AccountID AccountID `db:"account_id"`
	Author    string    `db:"author"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
