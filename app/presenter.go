package app

import (
	"context"
	"log/slog"

	"github.com/sourcegraph/conc"

	"github.com/CrestNiraj12/postpad/domain"
	"github.com/CrestNiraj12/postpad/infra/metrics"
)

// Presenter owns the post list, the selected post and the editing flag.
// Intents mutate the store synchronously; network calls run in the
// background and write their results back into the store.
type Presenter struct {
	posts PostService
	store *Store
	log   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
}

// NewPresenter wires a presenter to its service and store. Nothing is
// fetched until Start is called.
func NewPresenter(posts PostService, store *Store, log *slog.Logger) *Presenter {
	ctx, cancel := context.WithCancel(context.Background())
	return &Presenter{
		posts:  posts,
		store:  store,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Store exposes the state container for subscription and snapshots.
func (p *Presenter) Store() *Store {
	return p.store
}

// Start triggers the initial fetch of the post list.
func (p *Presenter) Start() {
	p.Reload()
}

// Reload fetches the post list in the background. It is a no-op while a
// fetch is already running.
func (p *Presenter) Reload() {
	started := false
	p.store.update(func(st *State) bool {
		if st.Loading {
			return false
		}
		st.Loading = true
		started = true
		return true
	})
	if !started {
		p.log.Debug("reload skipped, fetch in flight")
		return
	}

	p.wg.Go(func() {
		posts, err := p.posts.ListPosts(p.ctx)
		if p.ctx.Err() != nil {
			return
		}
		if err != nil {
			p.log.Warn("listing posts failed", slog.String("error", err.Error()))
		} else {
			p.log.Debug("posts loaded", slog.Int("count", len(posts)))
		}
		p.store.update(func(st *State) bool {
			st.Loading = false
			if err != nil {
				st.LastErr = err
				return true
			}
			st.Posts = posts
			st.LastErr = nil
			return true
		})
	})
}

// SelectPost makes post the selection and leaves edit mode.
func (p *Presenter) SelectPost(post domain.Post) {
	p.store.update(func(st *State) bool {
		if st.Selected != nil && *st.Selected == post && !st.Editing {
			return false
		}
		sel := post
		st.Selected = &sel
		st.Editing = false
		return true
	})
}

// SelectPostByID selects the listed post with the given id. It reports
// false when no such post is listed.
func (p *Presenter) SelectPostByID(id int) bool {
	found := false
	p.store.update(func(st *State) bool {
		for _, post := range st.Posts {
			if post.ID == id {
				sel := post
				st.Selected = &sel
				st.Editing = false
				found = true
				return true
			}
		}
		return false
	})
	return found
}

// ToggleEditing flips edit mode for the selected post. Without a
// selection there is nothing to edit and the call is ignored.
func (p *Presenter) ToggleEditing() {
	p.store.update(func(st *State) bool {
		if st.Selected == nil {
			return false
		}
		st.Editing = !st.Editing
		return true
	})
}

// UpdateTitle replaces the selected post's title locally.
func (p *Presenter) UpdateTitle(title string) {
	p.store.update(func(st *State) bool {
		if st.Selected == nil || st.Selected.Title == title {
			return false
		}
		st.Selected.Title = title
		return true
	})
}

// UpdateBody replaces the selected post's body locally.
func (p *Presenter) UpdateBody(body string) {
	p.store.update(func(st *State) bool {
		if st.Selected == nil || st.Selected.Body == body {
			return false
		}
		st.Selected.Body = body
		return true
	})
}

// SavePost sends the selected post to the server in the background. It is
// a no-op without a selection or while another save is in flight.
func (p *Presenter) SavePost() {
	var post domain.Post
	started := false
	p.store.update(func(st *State) bool {
		if st.Selected == nil || st.Saving {
			return false
		}
		post = *st.Selected
		st.Saving = true
		started = true
		return true
	})
	if !started {
		return
	}

	p.wg.Go(func() {
		saved, err := p.posts.UpdatePost(p.ctx, post)
		if p.ctx.Err() != nil {
			return
		}
		if err != nil {
			metrics.PostSavesTotal.WithLabelValues("error").Inc()
			p.log.Warn("saving post failed",
				slog.Int("post_id", post.ID),
				slog.String("error", err.Error()))
			p.store.update(func(st *State) bool {
				st.Saving = false
				st.LastErr = err
				return true
			})
			return
		}

		metrics.PostSavesTotal.WithLabelValues("ok").Inc()
		p.log.Info("post saved", slog.Int("post_id", saved.ID))
		p.store.update(func(st *State) bool {
			st.Saving = false
			st.LastErr = nil
			if st.Selected != nil && st.Selected.ID == post.ID {
				sel := saved
				st.Selected = &sel
				st.Editing = false
			}
			for i := range st.Posts {
				if st.Posts[i].ID == post.ID {
					st.Posts[i] = saved
					break
				}
			}
			return true
		})
	})
}

// Wait blocks until every background operation has finished.
func (p *Presenter) Wait() {
	p.wg.Wait()
}

// Close cancels in-flight operations. Their results are discarded.
func (p *Presenter) Close() {
	p.cancel()
	p.wg.Wait()
}
