// Package crs resolves coordinate reference systems and builds the planar to
// geographic transformation applied to every footprint vertex.
package crs

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/geom/proj"
	geo "github.com/paulmach/go.geo"
)

// DefaultPair is the pair used when nothing else is configured.
const DefaultPair = "EPSG:25830 → EPSG:4326"

// ConfigurationError reports a crs pair that cannot be turned into a transformation.
type ConfigurationError struct {
	Source string
	Target string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("crs configuration %q → %q: %v", e.Source, e.Target, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Reprojector transforms planar coordinates from Source into Target. Output is
// always x/y order, i.e. lon/lat for geographic targets. It is read only after
// New and safe for concurrent use.
type Reprojector struct {
	Source Definition
	Target Definition

	fn func(x, y float64) (float64, float64, error)
}

// New resolves both identifiers and builds the transformation. Any failure is
// a *ConfigurationError; there is no identity fallback.
func New(source, target string) (*Reprojector, error) {
	src, err := Lookup(source)
	if err != nil {
		return nil, &ConfigurationError{Source: source, Target: target, Err: err}
	}

	dst, err := Lookup(target)
	if err != nil {
		return nil, &ConfigurationError{Source: source, Target: target, Err: err}
	}

	r := &Reprojector{Source: src, Target: dst}

	switch {
	case src.Proj == dst.Proj:
		r.fn = identity
	case src.Local || dst.Local:
		return nil, &ConfigurationError{Source: source, Target: target, Err: errors.New("a local engineering crs can only be paired with itself")}
	case src.Code == pseudoCode && dst.Code == wgs84Code:
		r.fn = mercatorInverse
	case src.Code == wgs84Code && dst.Code == pseudoCode:
		r.fn = mercatorProject
	default:
		fn, err := projTransform(src, dst)
		if err != nil {
			return nil, &ConfigurationError{Source: source, Target: target, Err: err}
		}
		r.fn = fn
	}

	return r, nil
}

// NewFromPair parses "SRC → DST" and calls New.
func NewFromPair(pair string) (*Reprojector, error) {
	source, target, err := ParsePair(pair)
	if err != nil {
		return nil, err
	}
	return New(source, target)
}

// ParsePair splits a "SRC → DST" string. "->" and "," are accepted as separators.
func ParsePair(pair string) (string, string, error) {
	for _, sep := range []string{"→", "->", ","} {
		if !strings.Contains(pair, sep) {
			continue
		}

		parts := strings.Split(pair, sep)
		if len(parts) != 2 {
			break
		}

		source := strings.TrimSpace(parts[0])
		target := strings.TrimSpace(parts[1])
		if source == "" || target == "" {
			break
		}
		return source, target, nil
	}

	return "", "", &ConfigurationError{Source: pair, Err: errors.New("expected a pair like \"EPSG:25830 → EPSG:4326\"")}
}

// Configured reports whether r was built by New and can transform.
func (r *Reprojector) Configured() bool {
	return r != nil && r.fn != nil
}

// Transform reprojects one coordinate.
func (r *Reprojector) Transform(x, y float64) (float64, float64, error) {
	if !r.Configured() {
		return 0, 0, errors.New("reprojector is not configured, build it with crs.New")
	}

	tx, ty, err := r.fn(x, y)
	if err != nil {
		return 0, 0, err
	}

	if math.IsNaN(tx) || math.IsNaN(ty) || math.IsInf(tx, 0) || math.IsInf(ty, 0) {
		return 0, 0, fmt.Errorf("coordinate (%v, %v) has no finite image in %s", x, y, r.Target.Code)
	}

	return tx, ty, nil
}

// Inverse builds the transformation in the opposite direction.
func (r *Reprojector) Inverse() (*Reprojector, error) {
	return New(r.Target.Code, r.Source.Code)
}

// Identity reports whether source and target resolve to the same definition.
func (r *Reprojector) Identity() bool {
	return r.Source.Proj == r.Target.Proj
}

func (r *Reprojector) String() string {
	return r.Source.Code + " → " + r.Target.Code
}

func identity(x, y float64) (float64, float64, error) {
	return x, y, nil
}

// mercatorInverse converts EPSG:3857 meters to EPSG:4326 degrees
func mercatorInverse(x, y float64) (float64, float64, error) {
	mercPoint := geo.NewPoint(x, y)
	geo.Mercator.Inverse(mercPoint)
	return mercPoint.X(), mercPoint.Y(), nil
}

// mercatorProject converts EPSG:4326 degrees to EPSG:3857 meters
func mercatorProject(x, y float64) (float64, float64, error) {
	if y <= -90 || y >= 90 {
		return 0, 0, fmt.Errorf("latitude %v is outside the mercator domain", y)
	}
	mercPoint := geo.NewPoint(x, y)
	geo.Mercator.Project(mercPoint)
	return mercPoint.X(), mercPoint.Y(), nil
}

func projTransform(src, dst Definition) (func(x, y float64) (float64, float64, error), error) {
	from, err := proj.Parse(src.Proj)
	if err != nil {
		return nil, fmt.Errorf("[proj.Parse] for %s encountered: %w", src.Code, err)
	}

	to, err := proj.Parse(dst.Proj)
	if err != nil {
		return nil, fmt.Errorf("[proj.Parse] for %s encountered: %w", dst.Code, err)
	}

	transform, err := from.NewTransform(to)
	if err != nil {
		return nil, fmt.Errorf("[NewTransform] in pkg [crs] encountered: %w", err)
	}

	return transform, nil
}
