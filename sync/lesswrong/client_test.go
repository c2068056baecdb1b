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

	"github.com/topi314/partiful-sync/internal/xtime"
)

func testConfig(endpoint string) Config {
	return Config{
		Endpoint: endpoint,
		Every:    xtime.Duration(time.Millisecond),
		Burst:    10,
	}
}

func TestDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		cookie, err := r.Cookie("loginToken")
		require.NoError(t, err)
		require.Equal(t, "secret-token", cookie.Value)

		var req Req
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "query Q { value }", req.Query)
		require.Equal(t, "bar", req.Variables["foo"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"value": 42,
			},
		})
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), "secret-token", srv.Client())

	var out struct {
		Value int `json:"value"`
	}
	require.NoError(t, client.Do(context.Background(), "query Q { value }", map[string]any{"foo": "bar"}, &out))
	assert.Equal(t, 42, out.Value)
}

func TestDoNoTokenNoCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := r.Cookie("loginToken")
		require.ErrorIs(t, err, http.ErrNoCookie)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), "", srv.Client())
	require.NoError(t, client.Do(context.Background(), "query Q { value }", nil, nil))
}

func TestDoGraphQLErrorsOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{
				{"message": "not logged in"},
				{"message": "app.operation_not_allowed"},
			},
		})
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), "token", srv.Client())

	err := client.Do(context.Background(), "query Q { value }", nil, nil)
	require.ErrorIs(t, err, ErrRejected)
	// All error messages must surface, not just the first.
	assert.Contains(t, err.Error(), "not logged in")
	assert.Contains(t, err.Error(), "app.operation_not_allowed")
	assert.NotErrorIs(t, err, ErrTransport)
}

func TestDoGraphQLErrorsOn4xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{
				{"message": "invalid variables"},
			},
		})
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), "token", srv.Client())

	// A rich JSON error body wins over the HTTP status.
	err := client.Do(context.Background(), "query Q { value }", nil, nil)
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "invalid variables")
	assert.NotErrorIs(t, err, ErrTransport)
}

func TestDoUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), "token", srv.Client())

	err := client.Do(context.Background(), "query Q { value }", nil, nil)
	require.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "500")
	assert.NotErrorIs(t, err, ErrRejected)
}

func TestDoErrorStatusWithDecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": nil})
	}))
	defer srv.Close()

	client := New(testConfig(srv.URL), "token", srv.Client())

	err := client.Do(context.Background(), "query Q { value }", nil, nil)
	require.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "503")
}
