package sync

import (
	"fmt"
	"strings"

	"github.com/topi314/partiful-sync/internal/omit"
	"github.com/topi314/partiful-sync/sync/lesswrong"
	"github.com/topi314/partiful-sync/sync/partiful"
)

// Transform maps a normalized Partiful event plus static site configuration
// onto the LessWrong post input shape. The registration link is always set
// to the Partiful URL; it is the join key for future syncs of the same
// event. The venue comes from config, not from the Partiful event, since
// Partiful only reveals the exact address to confirmed guests.
func Transform(event partiful.Event, lwCfg lesswrong.Config, eventCfg EventConfig) lesswrong.PostInput {
	post := lesswrong.PostInput{
		Title:                 event.Title,
		StartTime:             omit.FromPtr(event.StartTime),
		EndTime:               omit.FromPtr(event.EndTime),
		EventRegistrationLink: omit.New(event.URL),
	}

	if eventCfg.LocationName != "" {
		post.Location = omit.New(eventCfg.LocationName)
		post.GoogleLocation = omit.New(lesswrong.GoogleLocation{
			Name:             eventCfg.LocationName,
			FormattedAddress: eventCfg.LocationName,
			Geometry: lesswrong.Geometry{
				Location: lesswrong.GeoPoint{
					Lat: eventCfg.Latitude,
					Lng: eventCfg.Longitude,
				},
			},
		})
	}

	if lwCfg.GroupID != "" {
		post.GroupID = omit.New(lwCfg.GroupID)
	}
	if lwCfg.ContactInfo != "" {
		post.ContactInfo = omit.New(lwCfg.ContactInfo)
	}
	if len(lwCfg.Types) > 0 {
		post.Types = omit.New(lwCfg.Types)
	}

	post.Contents = omit.New(lesswrong.ContentsInput{
		OriginalContents: lesswrong.OriginalContents{
			Type: "html",
			Data: formatDescription(event.Description, event.URL),
		},
	})

	return post
}

// formatDescription renders the plain-text Partiful description as HTML:
// double newlines separate paragraphs, single newlines become <br>, and an
// RSVP paragraph linking back to Partiful is appended.
func formatDescription(description string, eventURL string) string {
	var sb strings.Builder
	for _, para := range strings.Split(description, "\n\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(strings.ReplaceAll(para, "\n", "<br>"))
		sb.WriteString("</p>")
	}
	sb.WriteString(fmt.Sprintf("<p>RSVP and find the exact location on <a href=%q>Partiful</a>.</p>", eventURL))
	return sb.String()
}
