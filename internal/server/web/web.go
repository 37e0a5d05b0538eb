// Package web embeds the HTML templates and static assets served by the
// listing pages.
package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"

	"github.com/dmitrijs2005/wanderlust/internal/server/maps"
	"github.com/dmitrijs2005/wanderlust/internal/server/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// ShowPage is the data behind templates/show.html.
type ShowPage struct {
	Listing     *models.Listing
	Coordinates maps.Coordinates
	View        maps.View
	PlusCode    string
	ImageURL    string
}

// NewShowPage fills the map related fields from the listing's geometry.
func NewShowPage(l *models.Listing, imageURL string) ShowPage {
	return ShowPage{
		Listing:     l,
		Coordinates: l.Geometry,
		View:        maps.NewLocationView(l.Geometry),
		PlusCode:    l.Geometry.PlusCode(),
		ImageURL:    imageURL,
	}
}

// Templates parses every page template.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// RenderShow writes the listing page for p.
func RenderShow(t *template.Template, w io.Writer, p ShowPage) error {
	return t.ExecuteTemplate(w, "show.html", p)
}

// Static returns the asset tree rooted at static/, e.g. "js/map.js".
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
