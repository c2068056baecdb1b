package lesswrong

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topi314/partiful-sync/internal/omit"
)

func marshalData(t *testing.T, op Operation) map[string]any {
	t.Helper()
	raw, err := json.Marshal(op.Variables["data"])
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal(raw, &data))
	return data
}

func TestBuildCreatePostMinimal(t *testing.T) {
	op := BuildCreatePost(PostInput{Title: "Picnic"})

	data := marshalData(t, op)
	// Absent optional fields are omitted entirely so server defaults apply.
	assert.Equal(t, map[string]any{
		"title":   "Picnic",
		"isEvent": true,
		"draft":   true,
	}, data)
}

func TestBuildCreatePostFull(t *testing.T) {
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	op := BuildCreatePost(PostInput{
		Title:                 "Picnic",
		StartTime:             omit.New(start),
		EndTime:               omit.New(end),
		Location:              omit.New("123 Main St"),
		EventRegistrationLink: omit.New("https://partiful.com/e/abc123"),
		GroupID:               omit.New("group-1"),
		ContactInfo:           omit.New("ping me"),
		Types:                 omit.New([]string{"LW"}),
		GoogleLocation: omit.New(GoogleLocation{
			Name:             "123 Main St",
			FormattedAddress: "123 Main St",
			Geometry: Geometry{
				Location: GeoPoint{Lat: 37.8715, Lng: -122.273},
			},
		}),
		Contents: omit.New(ContentsInput{
			OriginalContents: OriginalContents{
				Type: "html",
				Data: "<p>Come hang</p>",
			},
		}),
	})

	data := marshalData(t, op)
	assert.Equal(t, true, data["isEvent"])
	assert.Equal(t, true, data["draft"])
	assert.Equal(t, "2025-06-01T18:00:00Z", data["startTime"])
	assert.Equal(t, "2025-06-01T21:00:00Z", data["endTime"])
	assert.Equal(t, "https://partiful.com/e/abc123", data["eventRegistrationLink"])
	assert.Equal(t, "group-1", data["groupId"])

	contents, ok := data["contents"].(map[string]any)
	require.True(t, ok)
	original, ok := contents["originalContents"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "html", original["type"])
	assert.Equal(t, "<p>Come hang</p>", original["data"])

	location, ok := data["googleLocation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "123 Main St", location["formatted_address"])
}

func TestBuildUpdatePost(t *testing.T) {
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	op := BuildUpdatePost("post-1", PostInput{
		Title:     "Picnic",
		StartTime: omit.New(start),
		// The caller must not be able to flip draft or isEvent on update.
		Draft:   omit.New(false),
		IsEvent: omit.New(true),
	})

	selector, ok := op.Variables["selector"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "post-1", selector["_id"])

	data := marshalData(t, op)
	assert.Equal(t, "Picnic", data["title"])
	assert.Equal(t, "2025-06-01T18:00:00Z", data["startTime"])
	assert.NotContains(t, data, "draft")
	assert.NotContains(t, data, "isEvent")
}

func TestCreatePost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Req
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Contains(t, req.Query, "mutation CreatePost")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"createPost": map[string]any{
					"data": map[string]any{
						"_id":   "post-1",
						"title": "Picnic",
						"url":   "https://www.lesswrong.com/events/post-1/picnic",
						"draft": true,
					},
				},
			},
		})
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), "token", srv.Client())

	post, err := client.CreatePost(context.Background(), PostInput{Title: "Picnic"})
	require.NoError(t, err)
	assert.Equal(t, "post-1", post.ID)
	assert.True(t, post.Draft)
}

func TestUpdatePost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Req
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Contains(t, req.Query, "mutation UpdatePost")

		selector, ok := req.Variables["selector"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "post-1", selector["_id"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"updatePost": map[string]any{
					"data": map[string]any{
						"_id":   "post-1",
						"title": "Picnic",
						"url":   "https://www.lesswrong.com/events/post-1/picnic",
					},
				},
			},
		})
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), "token", srv.Client())

	post, err := client.UpdatePost(context.Background(), "post-1", PostInput{Title: "Picnic"})
	require.NoError(t, err)
	assert.Equal(t, "post-1", post.ID)
}
