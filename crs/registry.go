package crs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Definition is a resolved coordinate reference system.
type Definition struct {
	Code       string `json:"code" yaml:"code"`
	Proj       string `json:"proj" yaml:"proj"`
	Geographic bool   `json:"geographic" yaml:"geographic"`
	Local      bool   `json:"local" yaml:"local"`
}

const (
	// LocalCode names an engineering CRS with no georeference.
	LocalCode = "LOCAL"

	wgs84Code  = "EPSG:4326"
	pseudoCode = "EPSG:3857"

	localProj = "local"
)

var registry = map[int]Definition{
	4326:  {Code: wgs84Code, Proj: "+proj=longlat +datum=WGS84 +no_defs", Geographic: true},
	4258:  {Code: "EPSG:4258", Proj: "+proj=longlat +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +no_defs", Geographic: true},
	4269:  {Code: "EPSG:4269", Proj: "+proj=longlat +ellps=GRS80 +towgs84=0,0,0 +no_defs", Geographic: true},
	3857:  {Code: pseudoCode, Proj: "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +no_defs"},
	2154:  {Code: "EPSG:2154", Proj: "+proj=lcc +lat_0=46.5 +lon_0=3 +lat_1=49 +lat_2=44 +x_0=700000 +y_0=6600000 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs"},
	27700: {Code: "EPSG:27700", Proj: "+proj=tmerc +lat_0=49 +lon_0=-2 +k=0.9996012717 +x_0=400000 +y_0=-100000 +ellps=airy +towgs84=446.448,-125.157,542.06,0.15,0.247,0.842,-20.489 +units=m +no_defs"},
}

// aliases for codes that show up in older tools
var aliases = map[string]int{
	"EPSG:900913":                   3857,
	"EPSG:102100":                   3857,
	"CRS84":                         4326,
	"OGC:CRS84":                     4326,
	"WGS84":                         4326,
	"URN:OGC:DEF:CRS:OGC:1.3:CRS84": 4326,
}

// Lookup resolves an identifier: an authority code ("EPSG:25830"), a raw
// PROJ.4 string ("+proj=utm +zone=30 ...") or LOCAL.
func Lookup(id string) (Definition, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Definition{}, errors.New("empty crs identifier")
	}

	if strings.HasPrefix(id, "+") {
		if !strings.Contains(id, "+proj=") {
			return Definition{}, fmt.Errorf("proj string %q has no +proj parameter", id)
		}
		geographic := strings.Contains(id, "+proj=longlat") || strings.Contains(id, "+proj=latlong")
		return Definition{Code: id, Proj: id, Geographic: geographic}, nil
	}

	upper := strings.ToUpper(id)
	if upper == LocalCode || strings.HasPrefix(upper, LocalCode+":") {
		return Definition{Code: LocalCode, Proj: localProj, Local: true}, nil
	}

	if code, ok := aliases[upper]; ok {
		return registry[code], nil
	}

	// urn:ogc:def:crs:EPSG::25830
	if strings.HasPrefix(upper, "URN:OGC:DEF:CRS:EPSG:") {
		parts := strings.Split(upper, ":")
		upper = "EPSG:" + parts[len(parts)-1]
	}

	if !strings.HasPrefix(upper, "EPSG:") {
		return Definition{}, fmt.Errorf("unsupported authority in %q, expected EPSG:<code>", id)
	}

	code, err := strconv.Atoi(strings.TrimPrefix(upper, "EPSG:"))
	if err != nil {
		return Definition{}, fmt.Errorf("malformed epsg code %q", id)
	}

	if def, ok := registry[code]; ok {
		return def, nil
	}

	if def, ok := utmDefinition(code); ok {
		return def, nil
	}

	return Definition{}, fmt.Errorf("epsg code %d is not in the registry", code)
}

// utmDefinition covers the ETRS89 and WGS84 UTM zone ranges.
func utmDefinition(code int) (Definition, bool) {
	label := fmt.Sprintf("EPSG:%d", code)

	switch {
	case code >= 25828 && code <= 25838:
		zone := code - 25800
		return Definition{Code: label, Proj: fmt.Sprintf("+proj=utm +zone=%d +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs", zone)}, true
	case code >= 32601 && code <= 32660:
		zone := code - 32600
		return Definition{Code: label, Proj: fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", zone)}, true
	case code >= 32701 && code <= 32760:
		zone := code - 32700
		return Definition{Code: label, Proj: fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", zone)}, true
	}

	return Definition{}, false
}
