package partiful

import (
	"encoding/json"
	"time"
)

type infoReq struct {
	Data infoReqData `json:"data"`
}

type infoReqData struct {
	Params infoReqParams `json:"params"`
}

type infoReqParams struct {
	EventID string `json:"eventId"`
}

type infoResp struct {
	Error  json.RawMessage `json:"error"`
	Result struct {
		Data struct {
			Event rawEvent `json:"event"`
		} `json:"data"`
	} `json:"result"`
}

type rawEvent struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	Timezone       string     `json:"timezone"`
	MaxCapacity    int        `json:"maxCapacity"`
	Visibility     string     `json:"visibility"`
	PublicShortURL string     `json:"publicShortUrl"`
	LocationInfo   struct {
		MapsInfo mapsInfo `json:"mapsInfo"`
	} `json:"locationInfo"`
}

type mapsInfo struct {
	ApproximateLocation string   `json:"approximateLocation"`
	AddressLines        []string `json:"addressLines"`
	Lat                 *float64 `json:"lat"`
	Lng                 *float64 `json:"lng"`
}

// Event is the normalized form of one Partiful event. URL is always set and
// unique per event ID; downstream matching keys on it.
type Event struct {
	ID          string
	Title       string
	Description string
	StartTime   *time.Time
	EndTime     *time.Time
	Timezone    string
	Location    string
	Details     LocationDetails
	Capacity    int
	Visibility  string
	URL         string
}

// LocationDetails keeps the raw location fields for callers that need more
// than the display string.
type LocationDetails struct {
	Approximate  string
	AddressLines []string
	Lat          *float64
	Lng          *float64
}
