package geocode

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// Address is the normalized subset of a reverse-geocoding response used for
// classification.
type Address struct {
	Country string
	State   string
	City    string
	County  string
}

// Empty reports whether no component was resolved.
func (a Address) Empty() bool {
	return a.Country == "" && a.State == "" && a.City == "" && a.County == ""
}

// Provider-specific aliases, in priority order.
var (
	stateKeys  = []string{"state", "province", "region"}
	cityKeys   = []string{"city", "town", "village", "municipality"}
	countyKeys = []string{"county"}
)

// ParseAddress extracts an Address from a Nominatim-style JSON body. The
// response must contain an "address" object; an "error" member is reported
// as a failure.
func ParseAddress(body []byte) (Address, error) {
	if !gjson.ValidBytes(body) {
		return Address{}, errors.New("response is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if msg := doc.Get("error"); msg.Exists() {
		text := msg.String()
		if msg.IsObject() {
			text = msg.Get("message").String()
		}
		return Address{}, errors.New("provider error: " + strings.TrimSpace(text))
	}
	addr := doc.Get("address")
	if !addr.IsObject() {
		return Address{}, errors.New("response has no address")
	}
	return Address{
		Country: firstOf(addr, []string{"country"}),
		State:   firstOf(addr, stateKeys),
		City:    firstOf(addr, cityKeys),
		County:  firstOf(addr, countyKeys),
	}, nil
}

func firstOf(obj gjson.Result, keys []string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(obj.Get(key).String()); value != "" {
			return value
		}
	}
	return ""
}
