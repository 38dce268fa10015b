package geocode

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"photosort/internal/faults"
)

// LocationIQ queries the LocationIQ reverse endpoint. Requires an API key.
type LocationIQ struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewLocationIQ creates a LocationIQ provider.
func NewLocationIQ(apiKey, baseURL string, client *http.Client) *LocationIQ {
	if client == nil {
		client = NewHTTPClient(DefaultTimeout)
	}
	return &LocationIQ{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

func (p *LocationIQ) Name() string { return "locationiq" }

// ReverseGeocode resolves coordinates at city zoom.
func (p *LocationIQ) ReverseGeocode(ctx context.Context, lat, lon float64) (Address, error) {
	params := url.Values{
		"key":    {p.apiKey},
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lon, 'f', -1, 64)},
		"format": {"json"},
		"zoom":   {"10"},
	}
	body, err := getJSON(ctx, p.httpClient, p.baseURL+"/v1/reverse.php?"+params.Encode(), nil)
	if err != nil {
		return Address{}, faults.Wrap(faults.ErrGeocodeProvider, p.Name(), "reverse", "", err)
	}
	addr, err := ParseAddress(body)
	if err != nil {
		return Address{}, faults.Wrap(faults.ErrGeocodeProvider, p.Name(), "reverse", "parse response", err)
	}
	return addr, nil
}
