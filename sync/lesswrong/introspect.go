package lesswrong

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed queries/introspection.graphql
var introspectionQuery string

// IntrospectSchema fetches type and mutation information from the GraphQL
// endpoint. Diagnostic only; the sync pipeline never calls it.
func (c *Client) IntrospectSchema(ctx context.Context) (json.RawMessage, error) {
	var schema json.RawMessage
	if err := c.Do(ctx, introspectionQuery, map[string]any{}, &schema); err != nil {
		return nil, fmt.Errorf("failed to introspect schema: %w", err)
	}
	return schema, nil
}
