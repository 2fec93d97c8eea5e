package rest

import (
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/postpad/domain"
	"github.com/CrestNiraj12/postpad/infra/logger"
)

type staticToken string

func (s staticToken) AccessToken() (string, error) { return string(s), nil }

// handlerRoundTripper serves requests in-process without opening a socket.
type handlerRoundTripper struct {
	h http.Handler
}

func (rt handlerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	rt.h.ServeHTTP(rec, req)
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

type failingRoundTripper struct{}

func (failingRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, io.ErrUnexpectedEOF
}

func newTestClient(h http.Handler) *Client {
	return &Client{
		baseURL: "http://example.test",
		http:    &http.Client{Transport: handlerRoundTripper{h: h}},
		log:     logger.Discard(),
	}
}

func TestPostService_ListPosts_RequestShapeAndMapping(t *testing.T) {
	var gotPath, gotMethod, gotAccept, gotRequestID, gotAuth string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `[
			{"userId": 1, "id": 1, "title": "A", "body": "x"},
			{"userId": 1, "id": 2, "title": "", "body": "second"}
		]`)
	})

	posts, err := NewPostService(newTestClient(h)).ListPosts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/posts", gotPath)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "application/json", gotAccept)
	assert.NotEmpty(t, gotRequestID)
	assert.Empty(t, gotAuth, "anonymous client must not send a token")
	assert.Equal(t, []domain.Post{
		{ID: 1, UserID: 1, Title: "A", Body: "x"},
		{ID: 2, UserID: 1, Title: "", Body: "second"},
	}, posts)
}

func TestPostService_ListPosts_Empty(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	posts, err := NewPostService(newTestClient(h)).ListPosts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostService_ListPosts_DecodeErrors(t *testing.T) {
	bodies := map[string]string{
		"not json":      `<html>oops</html>`,
		"object":        `{"id": 1}`,
		"wrong type":    `[{"id": "one", "title": "A", "body": "x"}]`,
		"missing id":    `[{"title": "A", "body": "x"}]`,
		"missing title": `[{"id": 1, "body": "x"}]`,
		"zero id":       `[{"id": 0, "title": "A", "body": "x"}]`,
		"null entry":    `[null]`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})
			_, err := NewPostService(newTestClient(h)).ListPosts(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDecode)
			assert.NotErrorIs(t, err, domain.ErrNetwork)
		})
	}
}

func TestPostService_ListPosts_TransportError(t *testing.T) {
	c := &Client{
		baseURL: "http://example.test",
		http:    &http.Client{Transport: failingRoundTripper{}},
		log:     logger.Discard(),
	}

	_, err := NewPostService(c).ListPosts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestPostService_ListPosts_StatusError(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	})

	_, err := NewPostService(newTestClient(h)).ListPosts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.True(t, IsStatus(err, http.StatusServiceUnavailable))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "/posts", apiErr.Path)
	assert.Contains(t, apiErr.Body, "maintenance")
}

func TestPostService_UpdatePost_SendsFullPostAndReturnsServerCopy(t *testing.T) {
	var gotPath, gotMethod, gotContentType, gotAuth string
	var gotBody map[string]any
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		// Echo like the reference backend, with a server-side tweak.
		resp := maps.Clone(gotBody)
		resp["title"] = strings.ToUpper(resp["title"].(string))
		_ = json.NewEncoder(w).Encode(resp)
	})

	c := newTestClient(h)
	c.tokenProvider = staticToken("tok")

	saved, err := NewPostService(c).UpdatePost(context.Background(),
		domain.Post{ID: 7, UserID: 2, Title: "new title", Body: "new body"})
	require.NoError(t, err)

	assert.Equal(t, "/posts/7", gotPath)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "application/json; charset=UTF-8", gotContentType)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, map[string]any{
		"id": float64(7), "userId": float64(2), "title": "new title", "body": "new body",
	}, gotBody)
	assert.Equal(t, domain.Post{ID: 7, UserID: 2, Title: "NEW TITLE", Body: "new body"}, saved)
}

func TestPostService_UpdatePost_SendsLongFieldsUnchanged(t *testing.T) {
	title := strings.Repeat("t", 20000)
	body := strings.Repeat("b", 200000)
	var got domain.Post
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(got)
	})

	saved, err := NewPostService(newTestClient(h)).UpdatePost(context.Background(),
		domain.Post{ID: 3, Title: title, Body: body})
	require.NoError(t, err)
	assert.Len(t, got.Title, len(title))
	assert.Len(t, got.Body, len(body))
	assert.Equal(t, title, saved.Title)
}

func TestPostService_UpdatePost_RejectsMissingID(t *testing.T) {
	called := false
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := NewPostService(newTestClient(h)).UpdatePost(context.Background(), domain.Post{Title: "t"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPost)
	assert.False(t, called, "invalid post must not reach the server")
}

func TestPostService_UpdatePost_DecodeError(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id": 7, "title": 12}`)
	})

	_, err := NewPostService(newTestClient(h)).UpdatePost(context.Background(), domain.Post{ID: 7})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestPostService_UpdatePost_NotFound(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := NewPostService(newTestClient(h)).UpdatePost(context.Background(), domain.Post{ID: 101})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestClient_OverRealListener(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id": 3, "title": "t", "body": "b"}]`)
	}))
	defer srv.Close()

	svc := NewPostService(NewClient(srv.URL, nil, logger.Discard()))
	posts, err := svc.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 3, posts[0].ID)
}

func TestClient_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPostService(NewClient(srv.URL, nil, logger.Discard())).ListPosts(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.ErrorIs(t, err, context.Canceled)
}
