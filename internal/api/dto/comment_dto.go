package dto

import "time"

// CreateCommentRequest is the post-comment payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse is the public projection of a comment.
type CommentResponse struct {
	ID          string    `json:"id"`
	TicketID    string    `json:"ticket_id"`
	PosterName  string    `json:"poster_name"`
	Body        string    `json:"body"`
	CommentedAt time.Time `json:"commented_at"`
}
