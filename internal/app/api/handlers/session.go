package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rekoonads/sweven-games-gateway/internal/app/api/middleware"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/gamesession"
	"github.com/rekoonads/sweven-games-gateway/pkg/response"
)

type sessionStartRequest struct {
	GameID string `json:"gameId"`
}

type sessionStopRequest struct {
	SessionID string `json:"sessionId"`
}

// @Summary      Start session
// @Description  Re-verifies access and returns a streaming session. Starting the same game twice returns the existing session.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        request body handlers.SessionStartBody true "Session start request"
// @Success      200  {object}  handlers.RespSession
// @Router       /api/v1/session/start [post]
func ApiSessionStart(reg *gamesession.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionStartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT(err.Error()))
			return
		}

		s, err := reg.Begin(c.Request.Context(), middleware.IdentityFrom(c).UserID, req.GameID)
		if err != nil {
			if errors.Is(err, gamesession.ErrAccessDenied) {
				c.JSON(http.StatusForbidden, response.ErrorT(err.Error()))
				return
			}
			c.JSON(http.StatusBadRequest, response.ErrorT(err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(s))
	}
}

// @Summary      Stop session
// @Description  Tears down a session and deducts the played hours.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        request body handlers.SessionStopBody true "Session stop request"
// @Success      200  {object}  handlers.RespSessionEnd
// @Router       /api/v1/session/stop [post]
func ApiSessionStop(reg *gamesession.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionStopRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT(err.Error()))
			return
		}

		report, err := reg.End(c.Request.Context(), req.SessionID)
		if err != nil {
			if errors.Is(err, gamesession.ErrSessionNotFound) {
				c.JSON(http.StatusNotFound, response.ErrorT("Session not found"))
				return
			}
			// The session is gone either way; surface the deduction failure
			// with the report so the caller can reconcile later.
			c.JSON(http.StatusBadGateway, &response.APIResponse[*gamesession.EndReport]{
				Message: "Session ended but hour deduction failed",
				Data:    report,
			})
			return
		}
		c.JSON(http.StatusOK, response.OKT(report))
	}
}

func RegisterSessionRoutes(r gin.IRouter, reg *gamesession.Registry) {
	r.POST("/start", middleware.RequireIdentity(), ApiSessionStart(reg))
	r.POST("/stop", middleware.RequireIdentity(), ApiSessionStop(reg))
}
