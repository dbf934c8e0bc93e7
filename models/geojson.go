package models

import "encoding/json"

// Feature is a single GeoJSON feature. Geometry is carried opaquely;
// the pipeline joins attributes onto boundaries, it never edits shapes.
type Feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// FeatureCollection is a GeoJSON feature collection in the shape ArcGIS
// expects for a hosted feature layer import.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Name     string    `json:"name,omitempty"`
	CRS      *CRS      `json:"crs,omitempty"`
	Features []Feature `json:"features"`
}

// CRS names the coordinate reference system of a feature collection.
type CRS struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

// NewCollection returns an empty named FeatureCollection in EPSG:4326.
func NewCollection(name string) *FeatureCollection {
	return &FeatureCollection{
		Type: "FeatureCollection",
		Name: name,
		CRS: &CRS{
			Type:       "name",
			Properties: map[string]string{"name": "EPSG:4326"},
		},
		Features: []Feature{},
	}
}
