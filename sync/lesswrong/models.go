package lesswrong

import (
	"fmt"
	"strings"
	"time"

	"github.com/topi314/partiful-sync/internal/omit"
)

type Req struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type Resp[T any] struct {
	Errors []Error `json:"errors"`
	Data   T       `json:"data"`
}

type Error struct {
	Message string `json:"message"`
	Path    []any  `json:"path"`
}

func (e Error) String() string {
	return e.Error()
}

func (e Error) Error() string {
	msg := e.Message
	if len(e.Path) > 0 {
		var path []string
		for _, p := range e.Path {
			path = append(path, fmt.Sprint(p))
		}
		msg += fmt.Sprintf(", Path: %s", strings.Join(path, "."))
	}
	return msg
}

// Operation is one ready-to-send GraphQL operation.
type Operation struct {
	Query     string
	Variables map[string]any
}

// Post is an event post as returned by the LessWrong API. Posts are only
// ever decoded from responses, never constructed locally.
type Post struct {
	ID                    string       `json:"_id"`
	Title                 string       `json:"title"`
	Slug                  string       `json:"slug"`
	URL                   string       `json:"url"`
	IsEvent               bool         `json:"isEvent"`
	StartTime             *time.Time   `json:"startTime"`
	EndTime               *time.Time   `json:"endTime"`
	Location              string       `json:"location"`
	EventRegistrationLink string       `json:"eventRegistrationLink"`
	Draft                 bool         `json:"draft"`
	Contents              PostContents `json:"contents"`
	CreatedAt             *time.Time   `json:"createdAt"`
}

type PostContents struct {
	Markdown string `json:"markdown"`
}

// PostInput is the wire shape of CreatePostDataInput/UpdatePostDataInput.
// Absent optional fields are omitted from the payload entirely so
// server-side defaults apply.
type PostInput struct {
	Title                 string                    `json:"title"`
	IsEvent               omit.Omit[bool]           `json:"isEvent,omitzero"`
	Draft                 omit.Omit[bool]           `json:"draft,omitzero"`
	StartTime             omit.Omit[time.Time]      `json:"startTime,omitzero"`
	EndTime               omit.Omit[time.Time]      `json:"endTime,omitzero"`
	Location              omit.Omit[string]         `json:"location,omitzero"`
	GoogleLocation        omit.Omit[GoogleLocation] `json:"googleLocation,omitzero"`
	EventRegistrationLink omit.Omit[string]         `json:"eventRegistrationLink,omitzero"`
	GroupID               omit.Omit[string]         `json:"groupId,omitzero"`
	ContactInfo           omit.Omit[string]         `json:"contactInfo,omitzero"`
	Types                 omit.Omit[[]string]       `json:"types,omitzero"`
	Contents              omit.Omit[ContentsInput]  `json:"contents,omitzero"`
}

type ContentsInput struct {
	OriginalContents OriginalContents `json:"originalContents"`
}

type OriginalContents struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// GoogleLocation mirrors the Google Places shape LessWrong stores for event
// venues. Field names are part of the wire contract.
type GoogleLocation struct {
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Geometry         Geometry `json:"geometry"`
}

type Geometry struct {
	Location GeoPoint `json:"location"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
