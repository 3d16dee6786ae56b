// Package projection converts between the NAD83 / New York Long Island
// state-plane system (EPSG:2263, US survey feet) and geographic WGS84
// degrees, using a Lambert conformal conic with two standard parallels.
// The NAD83->WGS84 datum shift is below the accuracy of the sign data and
// is treated as identity.
package projection

import (
	"math"
)

// GRS80 ellipsoid (NAD83).
const (
	semiMajorAxisMeters = 6378137.0
	inverseFlattening   = 298.257222101
)

// EPSG:2263 Lambert conformal conic parameters.
const (
	stdParallel1Deg  = 40.66666666666666
	stdParallel2Deg  = 41.03333333333333
	latOriginDeg     = 40.16666666666666
	lonOriginDeg     = -74.0
	falseEastingM    = 300000.0
	falseNorthingM   = 0.0
	usFootMeters     = 0.304800609601219 // US survey foot
	inverseIterTol   = 1e-12
	inverseIterLimit = 15
)

// Plausibility bounds for the metro area. A transform result outside this
// box is treated as a failed conversion rather than rendered far from the
// intended region.
const (
	MinLat = 40.3
	MaxLat = 41.2
	MinLon = -74.6
	MaxLon = -73.4
)

// derived projection constants, computed once at init
var (
	ecc    float64 // first eccentricity
	coneN  float64 // cone constant
	coneF  float64 // scale constant
	rhoO   float64 // radius at the latitude of origin, meters
	lonO   float64 // longitude of origin, radians
)

func init() {
	f := 1.0 / inverseFlattening
	e2 := 2*f - f*f
	ecc = math.Sqrt(e2)

	phi1 := stdParallel1Deg * math.Pi / 180
	phi2 := stdParallel2Deg * math.Pi / 180
	phi0 := latOriginDeg * math.Pi / 180
	lonO = lonOriginDeg * math.Pi / 180

	m1 := mFactor(phi1)
	m2 := mFactor(phi2)
	t0 := tFactor(phi0)
	t1 := tFactor(phi1)
	t2 := tFactor(phi2)

	coneN = (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	coneF = m1 / (coneN * math.Pow(t1, coneN))
	rhoO = semiMajorAxisMeters * coneF * math.Pow(t0, coneN)
}

// mFactor is cos(phi)/sqrt(1 - e^2 sin^2 phi).
func mFactor(phi float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-ecc2()*s*s)
}

// tFactor is the isometric latitude function of the conic.
func tFactor(phi float64) float64 {
	s := math.Sin(phi)
	es := ecc * s
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-es)/(1+es), ecc/2)
}

func ecc2() float64 {
	f := 1.0 / inverseFlattening
	return 2*f - f*f
}

// ToGeographic converts state-plane coordinates in US survey feet to
// geographic degrees. It returns ok=false when the input or result is
// non-finite or the result falls outside the plausibility bounds.
func ToGeographic(x, y float64) (lat, lon float64, ok bool) {
	if !finite(x) || !finite(y) {
		return 0, 0, false
	}

	// feet -> meters, remove false origin
	xm := x*usFootMeters - falseEastingM
	ym := y*usFootMeters - falseNorthingM

	dy := rhoO - ym
	rho := math.Sqrt(xm*xm + dy*dy)
	if coneN < 0 {
		rho = -rho
	}
	theta := math.Atan2(xm, dy)

	t := math.Pow(rho/(semiMajorAxisMeters*coneF), 1/coneN)

	// iterate the inverse isometric latitude
	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < inverseIterLimit; i++ {
		es := ecc * math.Sin(phi)
		next := math.Pi/2 - 2*math.Atan(t*math.Pow((1-es)/(1+es), ecc/2))
		if math.Abs(next-phi) < inverseIterTol {
			phi = next
			break
		}
		phi = next
	}

	lat = phi * 180 / math.Pi
	lon = (theta/coneN + lonO) * 180 / math.Pi

	if !finite(lat) || !finite(lon) {
		return 0, 0, false
	}
	if lat < MinLat || lat > MaxLat || lon < MinLon || lon > MaxLon {
		return 0, 0, false
	}
	return lat, lon, true
}

// ToProjected converts geographic degrees to state-plane US survey feet.
// It is a coarse prefilter for narrowing upstream queries, not a precision
// transform; callers inflate the result by a margin before use.
func ToProjected(lon, lat float64) (x, y float64) {
	phi := lat * math.Pi / 180
	lam := lon * math.Pi / 180

	t := tFactor(phi)
	rho := semiMajorAxisMeters * coneF * math.Pow(t, coneN)
	theta := coneN * (lam - lonO)

	xm := rho*math.Sin(theta) + falseEastingM
	ym := rhoO - rho*math.Cos(theta) + falseNorthingM

	return xm / usFootMeters, ym / usFootMeters
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
