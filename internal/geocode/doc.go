// Package geocode resolves GPS coordinates to addresses through an ordered
// chain of reverse-geocoding providers (LocationIQ, then Nominatim).
//
// Calls across all providers share one Limiter so the public services see at
// most one request per interval. Responses are parsed with gjson so the
// provider-specific address aliases (state/province/region,
// city/town/village/municipality) resolve in a single pass.
package geocode
