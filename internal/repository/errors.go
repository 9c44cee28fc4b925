package repository

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidCursor   = errors.New("invalid cursor")
	ErrCommentNotFound = errors.New("comment not found")
	// ErrNotAuthor is returned when someone other than the author deletes a post or comment.
	ErrNotAuthor = errors.New("only the author can delete this")
)
