package httpapi

import (
	"bytes"
	"net/http"

	"github.com/dmitrijs2005/wanderlust/internal/server/web"
	"github.com/gin-gonic/gin"
)

// showListing renders the listing page that hosts the location map.
func (s *Server) showListing(c *gin.Context) {
	ctx := c.Request.Context()

	l, err := s.listings.Get(ctx, c.Param("id"))
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			s.logger.Error(ctx, "load listing", "error", err)
		}
		c.String(code, http.StatusText(code))
		return
	}

	var imageURL string
	if l.ImageKey != "" {
		imageURL, err = s.images.PresignDownload(ctx, l.ImageKey)
		if err != nil {
			s.logger.Warn(ctx, "presign image", "key", l.ImageKey, "error", err)
			imageURL = ""
		}
	}

	var buf bytes.Buffer
	if err := web.RenderShow(s.templates, &buf, web.NewShowPage(l, imageURL)); err != nil {
		s.logger.Error(ctx, "render listing", "error", err)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
