package model

import "strings"

// supertypes is an abridged IFC4 product hierarchy, enough for by-type queries
// to return subtypes the way an IFC toolkit does.
var supertypes = map[string]string{
	"IfcWallStandardCase":   "IfcWall",
	"IfcWallElementedCase":  "IfcWall",
	"IfcSlabStandardCase":   "IfcSlab",
	"IfcSlabElementedCase":  "IfcSlab",
	"IfcBeamStandardCase":   "IfcBeam",
	"IfcColumnStandardCase": "IfcColumn",
	"IfcDoorStandardCase":   "IfcDoor",
	"IfcWindowStandardCase": "IfcWindow",
	"IfcMemberStandardCase": "IfcMember",
	"IfcPlateStandardCase":  "IfcPlate",

	"IfcWall":                 "IfcBuildingElement",
	"IfcSlab":                 "IfcBuildingElement",
	"IfcBeam":                 "IfcBuildingElement",
	"IfcColumn":               "IfcBuildingElement",
	"IfcDoor":                 "IfcBuildingElement",
	"IfcWindow":               "IfcBuildingElement",
	"IfcMember":               "IfcBuildingElement",
	"IfcPlate":                "IfcBuildingElement",
	"IfcRoof":                 "IfcBuildingElement",
	"IfcStair":                "IfcBuildingElement",
	"IfcStairFlight":          "IfcBuildingElement",
	"IfcRamp":                 "IfcBuildingElement",
	"IfcRampFlight":           "IfcBuildingElement",
	"IfcRailing":              "IfcBuildingElement",
	"IfcCovering":             "IfcBuildingElement",
	"IfcCurtainWall":          "IfcBuildingElement",
	"IfcFooting":              "IfcBuildingElement",
	"IfcPile":                 "IfcBuildingElement",
	"IfcChimney":              "IfcBuildingElement",
	"IfcShadingDevice":        "IfcBuildingElement",
	"IfcBuildingElementProxy": "IfcBuildingElement",

	"IfcBuildingElement":           "IfcElement",
	"IfcFurnishingElement":         "IfcElement",
	"IfcGeographicElement":         "IfcElement",
	"IfcTransportElement":          "IfcElement",
	"IfcDistributionElement":       "IfcElement",
	"IfcDistributionFlowElement":   "IfcDistributionElement",
	"IfcFlowTerminal":              "IfcDistributionFlowElement",
	"IfcFlowSegment":               "IfcDistributionFlowElement",
	"IfcFlowFitting":               "IfcDistributionFlowElement",
	"IfcFeatureElement":            "IfcElement",
	"IfcFeatureElementSubtraction": "IfcFeatureElement",
	"IfcOpeningElement":            "IfcFeatureElementSubtraction",
	"IfcElement":                   "IfcProduct",
	"IfcSpace":                     "IfcSpatialStructureElement",
	"IfcBuildingStorey":            "IfcSpatialStructureElement",
	"IfcBuilding":                  "IfcSpatialStructureElement",
	"IfcSite":                      "IfcSpatialStructureElement",
	"IfcSpatialStructureElement":   "IfcSpatialElement",
	"IfcSpatialZone":               "IfcSpatialElement",
	"IfcSpatialElement":            "IfcProduct",
	"IfcAnnotation":                "IfcProduct",
	"IfcGrid":                      "IfcProduct",
	"IfcProxy":                     "IfcProduct",
}

// parents is supertypes folded to lower case, IFC names are case insensitive.
var parents = func() map[string]string {
	folded := make(map[string]string, len(supertypes))
	for t, super := range supertypes {
		folded[strings.ToLower(t)] = strings.ToLower(super)
	}
	return folded
}()

// IsA reports whether typeTag is query or one of its subtypes, ignoring case
// so IFCWALL and ifcwall both match IfcWall. Every element held by a model is
// a product, so Product matches anything.
func IsA(typeTag, query string) bool {
	query = strings.ToLower(query)
	if query == strings.ToLower(Product) {
		return true
	}

	for t := strings.ToLower(typeTag); t != ""; t = parents[t] {
		if t == query {
			return true
		}
	}

	return false
}
