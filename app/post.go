package app

import (
	"context"

	"github.com/CrestNiraj12/postpad/domain"
)

// PostService reads and updates posts on the remote backend.
type PostService interface {
	// ListPosts returns every post in server order.
	ListPosts(ctx context.Context) ([]domain.Post, error)

	// UpdatePost sends the full post and returns the server's representation.
	UpdatePost(ctx context.Context, post domain.Post) (domain.Post, error)
}
