package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rekoonads/sweven-games-gateway/internal/app/service/paymentreturn"
	"github.com/rekoonads/sweven-games-gateway/pkg/response"
)

// @Summary      Payment return
// @Description  Resolves the payment outcome after the browser returns from the external payment page. Blocks while polling, up to the configured attempt budget.
// @Tags         Payment
// @Produce      json
// @Param        order_id query string true "Order ID from the payment gateway redirect"
// @Success      200  {object}  handlers.RespPaymentReturn
// @Router       /api/v1/payment/return [get]
func ApiPaymentReturn(poller *paymentreturn.Poller) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := poller.Await(c.Request.Context(), c.Query("order_id"))
		// The poll itself completed; the result's status field tells the page
		// whether to render success, failure or the unknown notice.
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterPaymentRoutes(r gin.IRouter, poller *paymentreturn.Poller) {
	r.GET("/return", ApiPaymentReturn(poller))
}
