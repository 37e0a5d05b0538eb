// Package maps describes the location map shown on a listing page: the
// coordinate pair supplied by the page and the Leaflet view built around it.
package maps

import (
	olc "github.com/google/open-location-code/go"
)

// Coordinates is a GeoJSON style [longitude, latitude] pair. Values are
// passed through to the map as given.
type Coordinates [2]float64

// LatLng is the [latitude, longitude] order Leaflet expects.
type LatLng [2]float64

func (c Coordinates) Lng() float64 { return c[0] }
func (c Coordinates) Lat() float64 { return c[1] }

func (c Coordinates) LatLng() LatLng {
	return LatLng{c[1], c[0]}
}

// PlusCode returns the 10 digit Open Location Code for the point.
func (c Coordinates) PlusCode() string {
	return olc.Encode(c.Lat(), c.Lng(), 10)
}

const (
	ContainerID = "map"
	DefaultZoom = 13

	OSMTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	OSMAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`

	LocationPopupHTML = "<b>Exact Location</b><br>Will be shown after booking."
)

type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

type Popup struct {
	HTML string `json:"html"`
	Open bool   `json:"open"`
}

type Marker struct {
	Position LatLng `json:"position"`
	Popup    Popup  `json:"popup"`
}

// View is everything map.js needs to initialise the widget.
type View struct {
	Container string    `json:"container"`
	Center    LatLng    `json:"center"`
	Zoom      int       `json:"zoom"`
	TileLayer TileLayer `json:"tileLayer"`
	Marker    Marker    `json:"marker"`
}

// NewLocationView centres an OpenStreetMap view on c at zoom 13 with one
// marker whose popup is open from the start.
func NewLocationView(c Coordinates) View {
	center := c.LatLng()
	return View{
		Container: ContainerID,
		Center:    center,
		Zoom:      DefaultZoom,
		TileLayer: TileLayer{URL: OSMTileURL, Attribution: OSMAttribution},
		Marker: Marker{
			Position: center,
			Popup:    Popup{HTML: LocationPopupHTML, Open: true},
		},
	}
}
