package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rekoonads/sweven-games-gateway/internal/app/api/middleware"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/accessgate"
	"github.com/rekoonads/sweven-games-gateway/pkg/response"
)

// @Summary      Access check
// @Description  Verifies whether the signed-in user may start a streaming session. Always re-verifies; decisions are never cached.
// @Tags         Access
// @Produce      json
// @Success      200  {object}  handlers.RespAccess
// @Router       /api/v1/access [get]
func ApiCheckAccess(svc *accessgate.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		gate := svc.NewGate(middleware.IdentityFrom(c).UserID)
		decision := gate.Check(c.Request.Context())
		c.JSON(http.StatusOK, response.OKT(decision))
	}
}

func RegisterAccessRoutes(r gin.IRouter, svc *accessgate.Service) {
	r.GET("", middleware.RequireIdentity(), ApiCheckAccess(svc))
}
