package lesswrong

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/topi314/partiful-sync/internal/omit"
)

var (
	//go:embed queries/create_post.graphql
	createPostQuery string

	//go:embed queries/update_post.graphql
	updatePostQuery string
)

// BuildCreatePost builds the createPost operation. New events are always
// created as unpublished drafts.
func BuildCreatePost(post PostInput) Operation {
	post.IsEvent = omit.New(true)
	post.Draft = omit.New(true)
	return Operation{
		Query: createPostQuery,
		Variables: map[string]any{
			"data": post,
		},
	}
}

// BuildUpdatePost builds the updatePost operation addressing postID.
// Draft status is left unset so a published event stays published.
func BuildUpdatePost(postID string, post PostInput) Operation {
	post.IsEvent = omit.NewZero[bool]()
	post.Draft = omit.NewZero[bool]()
	return Operation{
		Query: updatePostQuery,
		Variables: map[string]any{
			"selector": map[string]any{
				"_id": postID,
			},
			"data": post,
		},
	}
}

type createPostResp struct {
	CreatePost struct {
		Data Post `json:"data"`
	} `json:"createPost"`
}

func (c *Client) CreatePost(ctx context.Context, post PostInput) (*Post, error) {
	op := BuildCreatePost(post)

	var resp createPostResp
	if err := c.Do(ctx, op.Query, op.Variables, &resp); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &resp.CreatePost.Data, nil
}

type updatePostResp struct {
	UpdatePost struct {
		Data Post `json:"data"`
	} `json:"updatePost"`
}

func (c *Client) UpdatePost(ctx context.Context, postID string, post PostInput) (*Post, error) {
	op := BuildUpdatePost(postID, post)

	var resp updatePostResp
	if err := c.Do(ctx, op.Query, op.Variables, &resp); err != nil {
		return nil, fmt.Errorf("failed to update post %q: %w", postID, err)
	}

	return &resp.UpdatePost.Data, nil
}
