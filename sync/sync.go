package sync

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/topi314/partiful-sync/sync/lesswrong"
	"github.com/topi314/partiful-sync/sync/partiful"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Result is the outcome of one sync run. Post is nil when the run was
// handed to a previewer instead of being executed.
type Result struct {
	Action    Action
	Event     partiful.Event
	Operation lesswrong.Operation
	Post      *lesswrong.Post
	Previewed bool
}

// New creates a Syncer. A nil previewer means operations are executed
// against LessWrong; a non-nil previewer receives the built operation
// instead.
func New(cfg Config, token string, previewer Previewer) *Syncer {
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.HTTPTimeout),
	}

	return &Syncer{
		cfg:       cfg,
		partiful:  partiful.New(cfg.Partiful, httpClient),
		lesswrong: lesswrong.New(cfg.LessWrong, token, httpClient),
		previewer: previewer,
	}
}

type Syncer struct {
	cfg       Config
	partiful  *partiful.Client
	lesswrong *lesswrong.Client
	previewer Previewer
}

// Run syncs one Partiful event to LessWrong: fetch, transform, match
// against prior syncs, then create or update. Component errors pass
// through unchanged so callers can inspect their kind.
func (s *Syncer) Run(ctx context.Context, ref string) (*Result, error) {
	slog.InfoContext(ctx, "Fetching event from partiful", slog.String("ref", ref))
	event, err := s.partiful.ResolveEvent(ctx, ref)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Loaded event", slog.String("event_id", event.ID), slog.String("title", event.Title), slog.String("url", event.URL))

	post := Transform(*event, s.lesswrong.Config(), s.cfg.Event)

	slog.InfoContext(ctx, "Checking for existing event", slog.String("url", event.URL))
	existing, err := s.lesswrong.FindEventByRegistrationLink(ctx, event.Title, event.URL)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Event: *event,
	}
	if existing != nil {
		slog.InfoContext(ctx, "Found existing event", slog.String("post_id", existing.ID), slog.String("post_url", existing.URL))
		result.Action = ActionUpdate
		result.Operation = lesswrong.BuildUpdatePost(existing.ID, post)
	} else {
		result.Action = ActionCreate
		result.Operation = lesswrong.BuildCreatePost(post)
	}

	if s.previewer != nil {
		if err = s.previewer.Preview(ctx, result.Action, result.Operation); err != nil {
			return nil, err
		}
		result.Previewed = true
		return result, nil
	}

	if existing != nil {
		slog.InfoContext(ctx, "Updating existing event", slog.String("post_id", existing.ID))
		result.Post, err = s.lesswrong.UpdatePost(ctx, existing.ID, post)
	} else {
		slog.InfoContext(ctx, "Creating new draft event", slog.String("title", event.Title))
		result.Post, err = s.lesswrong.CreatePost(ctx, post)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}
