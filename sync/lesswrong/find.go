package lesswrong

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

//go:embed queries/find_event.graphql
var findEventQuery string

var ErrAmbiguousMatch = errors.New("multiple events linked to the same registration url")

type postsResp struct {
	Posts struct {
		Results []Post `json:"results"`
	} `json:"posts"`
}

// FindEventByRegistrationLink searches the logged-in user's draft posts
// (including draft events) for a prior sync of the event with the given
// title and source URL.
//
// Matching runs in two tiers: first an exact match on
// eventRegistrationLink, then a substring scan of the post body, since
// older synced events stored the link only in the description. More than
// one match in either tier is a data integrity problem that has to be
// cleaned up on LessWrong by hand; it is never auto-resolved here.
// A nil Post with a nil error means no prior sync exists.
func (c *Client) FindEventByRegistrationLink(ctx context.Context, title string, sourceURL string) (*Post, error) {
	filter, err := json.Marshal(struct {
		Title string `json:"title"`
	}{
		Title: title,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode title filter: %w", err)
	}

	var resp postsResp
	if err = c.Do(ctx, findEventQuery, map[string]any{
		"title": string(filter),
	}, &resp); err != nil {
		return nil, err
	}

	// The server-side title filter is fuzzy; enforce an exact match locally.
	var candidates []Post
	for _, post := range resp.Posts.Results {
		if post.IsEvent && post.Title == title {
			candidates = append(candidates, post)
		}
	}
	slog.DebugContext(ctx, "Filtered draft events", slog.String("title", title), slog.Int("results", len(resp.Posts.Results)), slog.Int("candidates", len(candidates)))

	var matches []Post
	for _, post := range candidates {
		if post.EventRegistrationLink == sourceURL {
			matches = append(matches, post)
		}
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("%w: found %d events with registration link %s, resolve the duplicates on lesswrong manually", ErrAmbiguousMatch, len(matches), sourceURL)
	}
	if len(matches) == 1 {
		return &matches[0], nil
	}

	var fallbackMatches []Post
	for _, post := range candidates {
		if strings.Contains(post.Contents.Markdown, sourceURL) {
			fallbackMatches = append(fallbackMatches, post)
		}
	}
	if len(fallbackMatches) > 1 {
		return nil, fmt.Errorf("%w: found %d events with registration link %s in the post body, resolve the duplicates on lesswrong manually", ErrAmbiguousMatch, len(fallbackMatches), sourceURL)
	}
	if len(fallbackMatches) == 1 {
		return &fallbackMatches[0], nil
	}

	return nil, nil
}
