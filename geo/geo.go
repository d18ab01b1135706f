/*
Package geo provides geofence validation for attendance punches.

PURPOSE:
  Pure geometric functions: great-circle distance, nearest-zone selection,
  and the in/out-of-radius decision that gates punch recording. No I/O,
  no persistence - callers load candidate zones and pass them in.

KEY CONCEPTS:
  - Point: a latitude/longitude pair
  - Zone: a circular geofence with a radius in meters
  - Result: the audit record of a validation (which zone, how far)

POLICY:
  Absence of any zone is permissive, not restrictive. A punch is only
  rejected when at least one candidate zone requires compliance and the
  punch either carries no location or lands outside the nearest zone.

SEE ALSO:
  - timeclock/clock.go: invokes Validate before persisting a punch
  - store/sqlite: loads and deduplicates candidate zones per employee
*/
package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusMeters is the fixed sphere radius used for haversine distance.
const EarthRadiusMeters = 6371000.0

// =============================================================================
// TYPES
// =============================================================================

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// Zone is a circular geofence. Employees are linked to zones either through
// their shop or by direct assignment; both paths feed the same candidate set.
type Zone struct {
	ID           string
	Name         string
	Lat          float64
	Lon          float64
	RadiusMeters float64
	Required     bool
	Active       bool
}

func (z Zone) Center() Point { return Point{Lat: z.Lat, Lon: z.Lon} }

// Result records the outcome of an accepted validation for audit.
// ZoneID is the nearest zone even when that zone is not required;
// it is empty when no candidate zones exist.
type Result struct {
	ZoneID         string
	DistanceMeters float64
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrLocationRequired is returned when a required zone exists but the
	// punch carries no coordinates.
	ErrLocationRequired = errors.New("location required for this punch")

	// ErrOutsideZone is returned when the nearest required zone is violated.
	ErrOutsideZone = errors.New("outside required zone")
)

// OutsideZoneError reports how far outside the required zone the punch was.
type OutsideZoneError struct {
	ZoneID          string
	ZoneName        string
	DistanceMeters  float64
	ShortfallMeters float64
}

func (e *OutsideZoneError) Error() string {
	return fmt.Sprintf("outside zone %q: %.0fm away, %.0fm beyond the allowed radius",
		e.ZoneName, e.DistanceMeters, e.ShortfallMeters)
}

func (e *OutsideZoneError) Unwrap() error { return ErrOutsideZone }

// =============================================================================
// DISTANCE - haversine great-circle
// =============================================================================

// Distance returns the great-circle distance between two points in meters.
// Symmetric; zero when the points are identical.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// =============================================================================
// ZONE SELECTION
// =============================================================================

// Dedupe unions zone sets by identity. Shop-level and direct assignments can
// both reference the same zone; validation must see it once.
func Dedupe(sets ...[]Zone) []Zone {
	seen := make(map[string]bool)
	var out []Zone
	for _, set := range sets {
		for _, z := range set {
			if seen[z.ID] {
				continue
			}
			seen[z.ID] = true
			out = append(out, z)
		}
	}
	return out
}

// Nearest returns the zone closest to p, its distance, and whether p falls
// within its radius. ok is false when zones is empty.
func Nearest(p Point, zones []Zone) (nearest Zone, distance float64, within bool, ok bool) {
	if len(zones) == 0 {
		return Zone{}, 0, true, false
	}
	best := 0
	bestDist := Distance(p, zones[0].Center())
	for i := 1; i < len(zones); i++ {
		d := Distance(p, zones[i].Center())
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	z := zones[best]
	return z, bestDist, bestDist <= z.RadiusMeters, true
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate applies location policy to a punch.
//
// Rules:
//   - No zone in the candidate set requires compliance: accept, with or
//     without a location. The nearest zone is still recorded when a
//     location is present, for audit.
//   - At least one required zone and no location: ErrLocationRequired.
//   - Location present and the nearest zone is required but out of range:
//     OutsideZoneError with the shortfall distance.
func Validate(p *Point, zones []Zone) (Result, error) {
	required := false
	for _, z := range zones {
		if z.Required {
			required = true
			break
		}
	}

	if p == nil {
		if required {
			return Result{}, ErrLocationRequired
		}
		return Result{}, nil
	}

	z, dist, within, ok := Nearest(*p, zones)
	if !ok {
		return Result{}, nil
	}
	if z.Required && !within {
		return Result{}, &OutsideZoneError{
			ZoneID:          z.ID,
			ZoneName:        z.Name,
			DistanceMeters:  dist,
			ShortfallMeters: dist - z.RadiusMeters,
		}
	}
	return Result{ZoneID: z.ID, DistanceMeters: dist}, nil
}
