package maps

import (
	"encoding/json"
	"testing"

	olc "github.com/google/open-location-code/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocationView(t *testing.T) {
	v := NewLocationView(Coordinates{10, 20})

	assert.Equal(t, "map", v.Container)
	assert.Equal(t, LatLng{20, 10}, v.Center)
	assert.Equal(t, 13, v.Zoom)
	assert.Equal(t, "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", v.TileLayer.URL)
	assert.Contains(t, v.TileLayer.Attribution, "OpenStreetMap")

	assert.Equal(t, v.Center, v.Marker.Position)
	assert.Contains(t, v.Marker.Popup.HTML, "Exact Location")
	assert.Contains(t, v.Marker.Popup.HTML, "Will be shown after booking.")
	assert.True(t, v.Marker.Popup.Open)
}

func TestCoordinates_Accessors(t *testing.T) {
	c := Coordinates{-0.1276, 51.5072}

	assert.Equal(t, -0.1276, c.Lng())
	assert.Equal(t, 51.5072, c.Lat())
	assert.Equal(t, LatLng{51.5072, -0.1276}, c.LatLng())
}

func TestCoordinates_PlusCode(t *testing.T) {
	c := Coordinates{-0.1276, 51.5072}

	code := c.PlusCode()
	require.NoError(t, olc.CheckFull(code))

	area, err := olc.Decode(code)
	require.NoError(t, err)
	assert.LessOrEqual(t, area.LatLo, c.Lat())
	assert.GreaterOrEqual(t, area.LatHi, c.Lat())
	assert.LessOrEqual(t, area.LngLo, c.Lng())
	assert.GreaterOrEqual(t, area.LngHi, c.Lng())
}

func TestView_JSONShape(t *testing.T) {
	b, err := json.Marshal(NewLocationView(Coordinates{10, 20}))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))

	assert.Equal(t, []any{20.0, 10.0}, got["center"])
	assert.Equal(t, 13.0, got["zoom"])
	marker := got["marker"].(map[string]any)
	popup := marker["popup"].(map[string]any)
	assert.Equal(t, true, popup["open"])
}
