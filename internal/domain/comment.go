package domain

import "time"

// Comment is a staff note attached to a ticket.
type Comment struct {
	ID            string
	TicketID      string
	AuthorStaffID string
	Body          string
	CreatedAt     time.Time
}

// CommentWithAuthor joins the author name onto a comment for listings.
type CommentWithAuthor struct {
	Comment
	AuthorName string
}
