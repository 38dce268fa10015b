package location

import "math"

// EarthRadiusMiles is the mean Earth radius used for great-circle distances.
const EarthRadiusMiles = 3959.0

// Point is a GPS coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// DistanceMiles returns the haversine great-circle distance between p1 and p2.
func DistanceMiles(p1, p2 Point) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	dLat := (p2.Lat - p1.Lat) * math.Pi / 180
	dLon := (p2.Lon - p1.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Min(1, math.Sqrt(a)))
	return EarthRadiusMiles * c
}

// ShouldCluster reports whether two points are within thresholdMiles.
func ShouldCluster(p1, p2 Point, thresholdMiles float64) bool {
	return DistanceMiles(p1, p2) <= thresholdMiles
}
