package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/pkg/browser"

	"github.com/topi314/partiful-sync/sync/lesswrong"
)

const graphiqlURL = "https://www.lesswrong.com/graphiql"

// Previewer receives the built operation instead of it being executed.
type Previewer interface {
	Preview(ctx context.Context, action Action, op lesswrong.Operation) error
}

// GraphiQLURL returns the editor URL with query and variables pre-filled.
// Both must survive the URL-encoding round trip unchanged.
func GraphiQLURL(op lesswrong.Operation) (string, error) {
	variables, err := json.MarshalIndent(op.Variables, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode variables: %w", err)
	}

	values := url.Values{}
	values.Set("query", op.Query)
	values.Set("variables", string(variables))

	return graphiqlURL + "?" + values.Encode(), nil
}

func NewBrowserPreviewer() *BrowserPreviewer {
	return &BrowserPreviewer{}
}

// BrowserPreviewer opens the operation in the GraphiQL editor in the
// system browser.
type BrowserPreviewer struct{}

func (p *BrowserPreviewer) Preview(ctx context.Context, action Action, op lesswrong.Operation) error {
	editorURL, err := GraphiQLURL(op)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Opening GraphiQL editor", slog.String("action", string(action)))
	if err = browser.OpenURL(editorURL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

func NewWriterPreviewer(w io.Writer) *WriterPreviewer {
	return &WriterPreviewer{w: w}
}

// WriterPreviewer writes the operation to w for dry runs.
type WriterPreviewer struct {
	w io.Writer
}

func (p *WriterPreviewer) Preview(_ context.Context, action Action, op lesswrong.Operation) error {
	variables, err := json.MarshalIndent(op.Variables, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode variables: %w", err)
	}

	if _, err = fmt.Fprintf(p.w, "Dry run, no changes will be made.\nAction: %s\n\nMutation:\n%s\nVariables:\n%s\n", action, op.Query, variables); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}
