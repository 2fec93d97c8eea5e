package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/CrestNiraj12/postpad/domain"
)

// postService implements app.PostService against a JSONPlaceholder-style
// posts resource.
type postService struct {
	client   *Client
	validate *validator.Validate
}

// NewPostService creates a PostService backed by the REST API.
func NewPostService(client *Client) *postService {
	return &postService{
		client:   client,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// apiPost is the wire shape of a post. Fields are pointers so a body
// missing id/title/body can be told apart from a legitimately empty one.
type apiPost struct {
	ID     *int    `json:"id" validate:"required,gt=0"`
	UserID int     `json:"userId,omitempty"`
	Title  *string `json:"title" validate:"required"`
	Body   *string `json:"body" validate:"required"`
}

type updateRequest struct {
	ID     int `validate:"gt=0"`
	UserID int `validate:"gte=0"`
}

func (s *postService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	data, err := s.client.Get(ctx, "/posts")
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	var raw []apiPost
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing posts: %w: %w", domain.ErrDecode, err)
	}

	posts := make([]domain.Post, 0, len(raw))
	for i, p := range raw {
		post, err := s.toDomain(p)
		if err != nil {
			return nil, fmt.Errorf("parsing posts[%d]: %w", i, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *postService) UpdatePost(ctx context.Context, post domain.Post) (domain.Post, error) {
	req := updateRequest{ID: post.ID, UserID: post.UserID}
	if err := s.validate.Struct(req); err != nil {
		return domain.Post{}, fmt.Errorf("updating post %d: %w: %w", post.ID, domain.ErrInvalidPost, err)
	}

	payload, err := json.Marshal(post)
	if err != nil {
		return domain.Post{}, fmt.Errorf("encoding post: %w", err)
	}

	path := fmt.Sprintf("/posts/%d", post.ID)
	data, err := s.client.Put(ctx, path, bytes.NewReader(payload))
	if err != nil {
		return domain.Post{}, fmt.Errorf("updating post %d: %w", post.ID, err)
	}

	return s.parsePost(data)
}

func (s *postService) parsePost(data []byte) (domain.Post, error) {
	var p apiPost
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Post{}, fmt.Errorf("parsing post response: %w: %w", domain.ErrDecode, err)
	}
	return s.toDomain(p)
}

func (s *postService) toDomain(p apiPost) (domain.Post, error) {
	if err := s.validate.Struct(p); err != nil {
		return domain.Post{}, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	return domain.Post{
		ID:     *p.ID,
		UserID: p.UserID,
		Title:  *p.Title,
		Body:   *p.Body,
	}, nil
}
