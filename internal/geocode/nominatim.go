package geocode

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"photosort/internal/faults"
)

// Nominatim queries an OpenStreetMap Nominatim server. No key is needed, but
// the usage policy requires an identifying User-Agent.
type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewNominatim creates a Nominatim provider.
func NewNominatim(baseURL, userAgent string, client *http.Client) *Nominatim {
	if client == nil {
		client = NewHTTPClient(DefaultTimeout)
	}
	return &Nominatim{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: client,
	}
}

func (p *Nominatim) Name() string { return "nominatim" }

// ReverseGeocode resolves coordinates with English place names.
func (p *Nominatim) ReverseGeocode(ctx context.Context, lat, lon float64) (Address, error) {
	params := url.Values{
		"lat":             {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":             {strconv.FormatFloat(lon, 'f', -1, 64)},
		"format":          {"json"},
		"accept-language": {"en"},
		"addressdetails":  {"1"},
	}
	headers := map[string]string{"User-Agent": p.userAgent}
	body, err := getJSON(ctx, p.httpClient, p.baseURL+"/reverse?"+params.Encode(), headers)
	if err != nil {
		return Address{}, faults.Wrap(faults.ErrGeocodeProvider, p.Name(), "reverse", "", err)
	}
	addr, err := ParseAddress(body)
	if err != nil {
		return Address{}, faults.Wrap(faults.ErrGeocodeProvider, p.Name(), "reverse", "parse response", err)
	}
	return addr, nil
}
