package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/wanderlust/internal/server/maps"
	"github.com/dmitrijs2005/wanderlust/internal/server/models"
	"github.com/gin-gonic/gin"
)

// geometry is a GeoJSON point.
type geometry struct {
	Type        string           `json:"type"`
	Coordinates maps.Coordinates `json:"coordinates"`
}

type listingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Location    string   `json:"location"`
	Country     string   `json:"country"`
	Geometry    geometry `json:"geometry"`
	ImageKey    string   `json:"image_key"`
}

type listingResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Location    string    `json:"location"`
	Country     string    `json:"country"`
	Geometry    geometry  `json:"geometry"`
	PlusCode    string    `json:"plus_code"`
	ImageKey    string    `json:"image_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type imageRequest struct {
	Key string `json:"key"`
}

func toListingResponse(l *models.Listing) listingResponse {
	return listingResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		Country:     l.Country,
		Geometry:    geometry{Type: "Point", Coordinates: l.Geometry},
		PlusCode:    l.Geometry.PlusCode(),
		ImageKey:    l.ImageKey,
		CreatedAt:   l.CreatedAt,
	}
}

func (s *Server) createListing(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c)
		return
	}

	l, err := s.listings.Create(c.Request.Context(), currentUserID(c), &models.Listing{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		Country:     req.Country,
		Geometry:    req.Geometry.Coordinates,
		ImageKey:    req.ImageKey,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, toListingResponse(l))
}

func (s *Server) getListing(c *gin.Context) {
	l, err := s.listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponse(l))
}

func (s *Server) myListings(c *gin.Context) {
	ls, err := s.listings.ListByOwner(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := make([]listingResponse, 0, len(ls))
	for _, l := range ls {
		resp = append(resp, toListingResponse(l))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getListingMap(c *gin.Context) {
	v, err := s.listings.MapView(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) attachImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c)
		return
	}

	if err := s.listings.AttachImage(c.Request.Context(), c.Param("id"), currentUserID(c), req.Key); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) presignImage(c *gin.Context) {
	key, url, err := s.images.PresignUpload(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}
