// Package bimgeo flattens BIM model elements into reprojected plan
// footprints and publishes them as a GeoJSON FeatureCollection with their
// centroid and selected properties.
package bimgeo

import (
	"context"
	"fmt"
	"sort"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"go.uber.org/zap"

	"github.com/godeepar/bimgeo/crs"
	"github.com/godeepar/bimgeo/metrics"
	"github.com/godeepar/bimgeo/model"
)

// Options tune a Converter. The zero value is usable.
type Options struct {
	Workers           int
	SimplifyTolerance float64
	CentroidMode      CentroidMode
	Logger            *zap.Logger
}

// Converter runs the whole pipeline over one or more models.
type Converter struct {
	reprojector *crs.Reprojector
	flattener   *Flattener
	mode        CentroidMode
	logger      *zap.Logger
}

// Result is the output of a run. Warnings hold non fatal conditions such as
// ErrEmptyResult.
type Result struct {
	Collection *geojson.FeatureCollection
	Skips      []Skip
	Summary    Summary
	Warnings   []error
}

// NewConverter returns a Converter projecting through r.
func NewConverter(r *crs.Reprojector, opts Options) *Converter {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mode := opts.CentroidMode
	if mode == "" {
		mode = CentroidPrimaryRing
	}

	var projector Projector
	if r != nil {
		projector = r
	}

	return &Converter{
		reprojector: r,
		flattener: NewFlattener(projector,
			WithLogger(logger),
			WithWorkers(opts.Workers),
			WithSimplifyTolerance(opts.SimplifyTolerance),
		),
		mode:   mode,
		logger: logger,
	}
}

// Convert flattens the elements of the requested types in every model and
// builds one FeatureCollection. Empty types means IfcProduct, nil selected
// means DefaultProperties. Only configuration problems and cancellation are
// returned as errors; element problems end up in Result.Skips.
func (c *Converter) Convert(ctx context.Context, models []model.Model, types []string, selected []string) (*Result, error) {
	if c == nil || c.reprojector == nil {
		return nil, &PreconditionError{Stage: "Convert", Need: "a configured reprojector"}
	}

	if len(types) == 0 {
		types = []string{model.Product}
	}
	if selected == nil {
		selected = DefaultProperties
	}

	result := &Result{Summary: Summary{Models: len(models), Skipped: make(map[SkipReason]int)}}

	fc := geojson.NewFeatureCollection()
	fc.Features = []*geojson.Feature{}

	container := initExtentContainer()

	for _, m := range models {
		elements := selectElements(m, types)
		result.Summary.Elements += len(elements)
		metrics.ElementsProcessedTotal.Add(float64(len(elements)))

		start := time.Now()
		footprints, skips, err := c.flattener.Flatten(ctx, elements)
		metrics.FlattenDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			container.finish(&result.Summary, false)
			return nil, fmt.Errorf("[Flatten] of %s in pkg [bimgeo] encountered: %w", m.Name(), err)
		}

		for i := range footprints {
			footprints[i].Source = m.Name()
			container.observe(footprints[i])
		}
		for i := range skips {
			skips[i].Source = m.Name()
		}

		records := NewPropertyIndex(m).Extract(elements)
		for _, r := range records {
			r[KeySource] = m.Name()
		}

		centroids, centroidSkips := Centroids(footprints, c.mode)
		for _, s := range centroidSkips {
			c.logger.Warn("non fatal: centroid skipped",
				zap.String("global_id", s.ID),
				zap.String("source", s.Source),
				zap.Error(s.Err),
			)
		}
		skips = append(skips, centroidSkips...)

		// built per model so equal GlobalIds in different files stay apart
		for _, feature := range Build(footprints, centroids, records, selected).Features {
			fc.AddFeature(feature)
		}

		result.Skips = append(result.Skips, skips...)

		c.logger.Info("model converted",
			zap.String("source", m.Name()),
			zap.Int("elements", len(elements)),
			zap.Int("footprints", len(footprints)),
			zap.Int("skipped", len(skips)),
		)
	}

	container.finish(&result.Summary, c.reprojector.Target.Geographic)

	for reason, n := range CountSkips(result.Skips) {
		result.Summary.Skipped[reason] = n
		metrics.ElementsSkippedTotal.WithLabelValues(string(reason)).Add(float64(n))
	}

	result.Collection = fc
	result.Summary.Features = len(fc.Features)
	metrics.FeaturesBuiltTotal.Add(float64(len(fc.Features)))

	if len(fc.Features) == 0 {
		result.Warnings = append(result.Warnings, ErrEmptyResult)
		c.logger.Warn("non fatal: conversion produced no features", zap.Int("models", len(models)))
	}

	return result, nil
}

// selectElements lists the elements of every requested type once, in the
// order they are first found.
func selectElements(m model.Model, types []string) []model.Element {
	seen := make(map[string]bool)
	var elements []model.Element

	for _, t := range types {
		for _, el := range m.ElementsByType(t) {
			if seen[el.GlobalID()] {
				continue
			}
			seen[el.GlobalID()] = true
			elements = append(elements, el)
		}
	}

	return elements
}

// EntityTypes lists the distinct product types across models, sorted, with
// the IfcProduct meta type appended.
func EntityTypes(models []model.Model) []string {
	seen := make(map[string]bool)
	var types []string

	for _, m := range models {
		for _, t := range m.EntityTypes() {
			if t == model.Product || seen[t] {
				continue
			}
			seen[t] = true
			types = append(types, t)
		}
	}

	sort.Strings(types)
	return append(types, model.Product)
}
