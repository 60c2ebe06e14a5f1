package settings

// EndpointDTO carries the spreadsheet endpoint URL. An empty URL turns
// posting to the sheet off.
type EndpointDTO struct {
	URL string `json:"url"`
}

type EndpointResponse struct {
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

func newEndpointResponse(url string) EndpointResponse {
	return EndpointResponse{URL: url, Enabled: url != ""}
}
