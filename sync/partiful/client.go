package partiful

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultEndpoint = "https://api.partiful.com/getEventInfo"
	userAgent       = "partiful-sync/1.0"

	eventBaseURL = "https://partiful.com/e/"
)

var (
	ErrInvalidReference = errors.New("invalid partiful event reference")
	ErrUnavailable      = errors.New("partiful api unavailable")
	ErrRejected         = errors.New("partiful api rejected request")
)

type Config struct {
	Endpoint string `toml:"endpoint"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n Endpoint: %s",
		c.Endpoint,
	)
}

func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
	}
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

// ExtractEventID accepts a full event URL like
// https://partiful.com/e/EptusdlB9L6mm2Lfimfo or a bare event ID.
func ExtractEventID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrInvalidReference)
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}

	if u.Host == "partiful.com" || u.Host == "www.partiful.com" {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) >= 2 && parts[0] == "e" && parts[1] != "" {
			return parts[1], nil
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}

	if u.Host == "" && u.Scheme == "" {
		if id := strings.Trim(ref, "/"); id != "" {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidReference, ref)
}

// ResolveEvent extracts the event ID from ref, fetches the event and returns
// it normalized. This is the only entry point the syncer uses.
func (c *Client) ResolveEvent(ctx context.Context, ref string) (*Event, error) {
	eventID, err := ExtractEventID(ref)
	if err != nil {
		return nil, err
	}

	event, err := c.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %q: %w", eventID, err)
	}

	return event, nil
}

func (c *Client) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	slog.DebugContext(ctx, "Fetching partiful event", slog.String("event_id", eventID))

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(infoReq{
		Data: infoReqData{
			Params: infoReqParams{
				EventID: eventID,
			},
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	rq.Header.Set("Content-Type", "application/json")
	rq.Header.Set("Accept", "application/json")
	rq.Header.Set("User-Agent", userAgent)

	rs, err := c.httpClient.Do(rq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer rs.Body.Close()

	if rs.StatusCode < http.StatusOK || rs.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(rs.Body)
		slog.ErrorContext(ctx, "Failed to fetch partiful event", slog.Int("status_code", rs.StatusCode), slog.String("response", string(data)))
		return nil, fmt.Errorf("%w: request failed with status code: %d", ErrUnavailable, rs.StatusCode)
	}

	logBuf := new(bytes.Buffer)
	bodyReader := io.TeeReader(rs.Body, logBuf)

	var resp infoResp
	if err = json.NewDecoder(bodyReader).Decode(&resp); err != nil {
		slog.ErrorContext(ctx, "Failed to decode response", slog.String("response", logBuf.String()), slog.Any("error", err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(resp.Error) > 0 && !bytes.Equal(resp.Error, []byte("null")) {
		return nil, fmt.Errorf("%w: %s", ErrRejected, resp.Error)
	}

	if resp.Result.Data.Event.ID == "" {
		return nil, fmt.Errorf("%w: response carries no event", ErrRejected)
	}

	event := normalize(resp.Result.Data.Event)
	return &event, nil
}

func normalize(raw rawEvent) Event {
	info := raw.LocationInfo.MapsInfo

	var location string
	if len(info.AddressLines) > 0 {
		location = strings.Join(info.AddressLines, ", ")
	} else if info.ApproximateLocation != "" {
		location = strings.ReplaceAll(info.ApproximateLocation, "\n", ", ")
	}

	eventURL := raw.PublicShortURL
	if eventURL == "" {
		eventURL = eventBaseURL + raw.ID
	}

	return Event{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		StartTime:   raw.StartDate,
		EndTime:     raw.EndDate,
		Timezone:    raw.Timezone,
		Location:    location,
		Details: LocationDetails{
			Approximate:  info.ApproximateLocation,
			AddressLines: info.AddressLines,
			Lat:          info.Lat,
			Lng:          info.Lng,
		},
		Capacity:   raw.MaxCapacity,
		Visibility: raw.Visibility,
		URL:        eventURL,
	}
}
