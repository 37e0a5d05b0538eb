package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/wanderlust/internal/common"
	"github.com/dmitrijs2005/wanderlust/internal/server/models"
	"github.com/dmitrijs2005/wanderlust/internal/server/services"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// userResponse is the public view of a user; credentials never leave the
// server.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	User   userResponse        `json:"user"`
	Tokens *services.TokenPair `json:"tokens"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func (s *Server) badRequest(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
}

func (s *Server) setAccessCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.AccessTokenCookieName, token, int(s.accessTTL.Seconds()), "/", "", false, true)
}

// register creates the account and starts a session for it.
func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c)
		return
	}

	ctx := c.Request.Context()

	user, err := s.users.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}

	tokens, err := s.users.StartSession(ctx, user)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info(ctx, "Registered", "username", user.Username)
	s.setAccessCookie(c, tokens.AccessToken)
	c.JSON(http.StatusCreated, authResponse{User: toUserResponse(user), Tokens: tokens})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c)
		return
	}

	user, tokens, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.setAccessCookie(c, tokens.AccessToken)
	c.JSON(http.StatusOK, authResponse{User: toUserResponse(user), Tokens: tokens})
}

func (s *Server) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		s.badRequest(c)
		return
	}

	tokens, err := s.users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			err = common.ErrorUnauthorized
		}
		s.fail(c, err)
		return
	}

	s.setAccessCookie(c, tokens.AccessToken)
	c.JSON(http.StatusOK, tokens)
}

// logout clears the cookie and, when a refresh token is posted, revokes it.
func (s *Server) logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.badRequest(c)
		return
	}

	if req.RefreshToken != "" {
		if err := s.users.Logout(c.Request.Context(), req.RefreshToken); err != nil {
			s.fail(c, err)
			return
		}
	}

	c.SetCookie(common.AccessTokenCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	user, err := s.users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			err = common.ErrorUnauthorized
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c)
		return
	}

	if err := s.users.ChangePassword(c.Request.Context(), currentUserID(c), req.OldPassword, req.NewPassword); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// unlockUser clears a lockout on this server's attempt tracker.
func (s *Server) unlockUser(c *gin.Context) {
	username := c.Param("username")
	if err := s.users.Unlock(c.Request.Context(), username); err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info(c.Request.Context(), "Unlocked", "username", username)
	c.Status(http.StatusNoContent)
}
