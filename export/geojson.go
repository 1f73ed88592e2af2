// Package export writes a FeatureCollection to disk as GeoJSON or as an ESRI
// Shapefile.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	geojson "github.com/paulmach/go.geojson"
)

// WriteGeoJSON encodes fc to w, two space indented when indent is set.
func WriteGeoJSON(w io.Writer, fc *geojson.FeatureCollection, indent bool) error {
	var raw []byte
	var err error
	if indent {
		raw, err = json.MarshalIndent(fc, "", "  ")
	} else {
		raw, err = json.Marshal(fc)
	}
	if err != nil {
		return fmt.Errorf("[json.Marshal] in pkg [export] encountered: %w", err)
	}

	raw = append(raw, '\n')
	_, err = w.Write(raw)
	return err
}

// WriteGeoJSONFile writes fc to path, replacing any existing file.
func WriteGeoJSONFile(path string, fc *geojson.FeatureCollection, indent bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := WriteGeoJSON(f, fc, indent); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
