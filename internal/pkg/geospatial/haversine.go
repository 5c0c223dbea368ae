package geospatial

import "math"

// EarthRadiusMeters is the mean radius used for great-circle distances.
const EarthRadiusMeters = 6_371_000.0

// metersPerDegree is the length of one degree of latitude.
const metersPerDegree = EarthRadiusMeters * math.Pi / 180

// DistanceMeters returns the great-circle distance between two WGS 84
// positions. NaN coordinates yield NaN.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := radians(lat1), radians(lat2)
	dPhi := phi2 - phi1
	dLambda := radians(lon2 - lon1)

	h := hav(dPhi) + math.Cos(phi1)*math.Cos(phi2)*hav(dLambda)
	h = math.Min(1, h)
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Box is a latitude/longitude rectangle.
type Box struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// Span returns the box extent in degrees.
func (b Box) Span() (dLat, dLon float64) {
	return b.MaxLat - b.MinLat, b.MaxLon - b.MinLon
}

// Around returns a box that contains every position within radiusMeters of
// (lat, lon). Latitudes are clamped to the poles. When the circle reaches a
// pole or wraps the antimeridian the box covers every longitude.
func Around(lat, lon, radiusMeters float64) Box {
	dLat := radiusMeters / metersPerDegree
	b := Box{
		MinLat: math.Max(-90, lat-dLat),
		MaxLat: math.Min(90, lat+dLat),
		MinLon: -180,
		MaxLon: 180,
	}
	if b.MinLat == -90 || b.MaxLat == 90 {
		return b
	}

	dLon := radiusMeters / (metersPerDegree * math.Cos(radians(lat)))
	if lon-dLon < -180 || lon+dLon > 180 {
		return b
	}
	b.MinLon, b.MaxLon = lon-dLon, lon+dLon
	return b
}

func hav(theta float64) float64 {
	s := math.Sin(theta / 2)
	return s * s
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
