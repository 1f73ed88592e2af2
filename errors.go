package bimgeo

import (
	"errors"
	"fmt"

	"github.com/godeepar/bimgeo/crs"
)

// ConfigurationError reports an unusable crs pair. It is fatal and raised
// before any geometry is processed.
type ConfigurationError = crs.ConfigurationError

// ErrEmptyResult is reported as a warning when a run produces no features.
var ErrEmptyResult = errors.New("no features were produced")

// PreconditionError reports a stage invoked without what it needs.
type PreconditionError struct {
	Stage string
	Need  string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s requires %s", e.Stage, e.Need)
}

// SkipReason classifies why an element was left out.
type SkipReason string

const (
	SkipMeshError          SkipReason = "mesh_error"
	SkipNoFaces            SkipReason = "no_faces"
	SkipBadIndex           SkipReason = "bad_index"
	SkipReprojectError     SkipReason = "reproject_error"
	SkipDegenerate         SkipReason = "degenerate"
	SkipUnionError         SkipReason = "union_error"
	SkipEmpty              SkipReason = "empty"
	SkipInvalid            SkipReason = "invalid"
	SkipCentroidDegenerate SkipReason = "centroid_degenerate"
)

// Skip records a recoverable per element failure.
type Skip struct {
	ID     string     `json:"id" yaml:"id"`
	Type   string     `json:"type" yaml:"type"`
	Source string     `json:"source,omitempty" yaml:"source,omitempty"`
	Reason SkipReason `json:"reason" yaml:"reason"`
	Err    error      `json:"-" yaml:"-"`
}

func (s Skip) Error() string {
	if s.Err == nil {
		return fmt.Sprintf("%s %s skipped: %s", s.Type, s.ID, s.Reason)
	}
	return fmt.Sprintf("%s %s skipped: %s: %v", s.Type, s.ID, s.Reason, s.Err)
}

func (s Skip) Unwrap() error {
	return s.Err
}

// CountSkips tallies skips by reason.
func CountSkips(skips []Skip) map[SkipReason]int {
	counts := make(map[SkipReason]int)
	for _, s := range skips {
		counts[s.Reason]++
	}
	return counts
}
