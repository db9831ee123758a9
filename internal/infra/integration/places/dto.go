package places

// Subset of the Places API payloads this client reads.

type PlaceSummary struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
}

type Review struct {
	Time int64 `json:"time"` // unix seconds
}

type PlaceDetails struct {
	PlaceID              string   `json:"place_id"`
	Name                 string   `json:"name"`
	FormattedPhoneNumber string   `json:"formatted_phone_number"`
	Website              string   `json:"website"`
	URL                  string   `json:"url"`
	Reviews              []Review `json:"reviews"`
}

type textSearchResponse struct {
	Results       []PlaceSummary `json:"results"`
	NextPageToken string         `json:"next_page_token"`
	Status        string         `json:"status"`
	ErrorMessage  string         `json:"error_message"`
}

type detailsResponse struct {
	Result       *PlaceDetails `json:"result"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
}
