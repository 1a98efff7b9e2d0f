package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rekoonads/sweven-games-gateway/internal/app/api/middleware"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/checkout"
	"github.com/rekoonads/sweven-games-gateway/internal/platform/subsapi"
	"github.com/rekoonads/sweven-games-gateway/pkg/response"
)

type purchaseRequest struct {
	PlanID   string `json:"planId"`
	ReturnTo string `json:"returnTo"`
}

type cancelRequest struct {
	SubscriptionID string `json:"subscriptionId"`
	Reason         string `json:"reason"`
	Confirmed      bool   `json:"confirmed"`
}

// @Summary      Subscription page
// @Description  Returns plans, the caller's current subscription and billing history. Never fails: plan fetch errors fall back to the built-in catalog.
// @Tags         Subscription
// @Produce      json
// @Success      200  {object}  handlers.RespSubscriptionPage
// @Router       /api/v1/subscription/page [get]
func ApiSubscriptionPage(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.IdentityFrom(c)
		page := svc.LoadPage(c.Request.Context(), id.UserID)
		c.JSON(http.StatusOK, response.OKT(page))
	}
}

// @Summary      List plans
// @Tags         Subscription
// @Produce      json
// @Success      200  {object}  handlers.RespPlans
// @Router       /api/v1/subscription/plans [get]
func ApiListPlans(api subsapi.ClientAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		plans, err := api.ListPlans(c.Request.Context())
		if err != nil {
			c.JSON(upstreamStatus(err), response.ErrorT(subsapi.UserMessage(err, "Failed to fetch subscription plans")))
			return
		}
		c.JSON(http.StatusOK, response.OKT(plans))
	}
}

// @Summary      Get plan
// @Tags         Subscription
// @Produce      json
// @Param        planId path string true "Plan ID"
// @Success      200  {object}  handlers.RespPlan
// @Router       /api/v1/subscription/plans/{planId} [get]
func ApiGetPlan(api subsapi.ClientAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		plan, err := api.GetPlan(c.Request.Context(), c.Param("planId"))
		if err != nil {
			c.JSON(upstreamStatus(err), response.ErrorT(subsapi.UserMessage(err, "Failed to fetch plan details")))
			return
		}
		c.JSON(http.StatusOK, response.OKT(plan))
	}
}

// @Summary      Start a purchase
// @Description  Creates a subscription and returns the external payment page URL the browser must navigate to.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body handlers.PurchaseBody true "Purchase request"
// @Success      200  {object}  handlers.RespPurchase
// @Router       /api/v1/subscription/purchase [post]
func ApiPurchase(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req purchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT(err.Error()))
			return
		}

		res, err := svc.Purchase(c.Request.Context(), &checkout.PurchaseRequest{
			Identity: middleware.IdentityFrom(c),
			PlanID:   req.PlanID,
			ReturnTo: req.ReturnTo,
		})
		if err != nil {
			if errors.Is(err, checkout.ErrSignInRequired) {
				c.JSON(http.StatusUnauthorized, &response.APIResponse[gin.H]{
					Message: checkout.UserMessage(err),
					Data:    gin.H{"signInUrl": svc.SignInRedirectURL(req.ReturnTo)},
				})
				return
			}
			if errors.Is(err, checkout.ErrNoPlanSelected) {
				c.JSON(http.StatusBadRequest, response.ErrorT(checkout.UserMessage(err)))
				return
			}
			c.JSON(purchaseStatus(err), response.ErrorT(checkout.UserMessage(err)))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Cancel subscription
// @Description  Requires confirmed:true; the backend is never called for unconfirmed requests.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body handlers.CancelBody true "Cancel request"
// @Success      200  {object}  handlers.RespCancel
// @Router       /api/v1/subscription/cancel [post]
func ApiCancel(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cancelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT(err.Error()))
			return
		}

		res, err := svc.Cancel(c.Request.Context(), &checkout.CancelRequest{
			UserID:         middleware.IdentityFrom(c).UserID,
			SubscriptionID: req.SubscriptionID,
			Reason:         req.Reason,
			Confirmed:      req.Confirmed,
		})
		if err != nil {
			if errors.Is(err, checkout.ErrCancellationNotConfirmed) {
				c.JSON(http.StatusBadRequest, response.ErrorT(checkout.UserMessage(err)))
				return
			}
			c.JSON(purchaseStatus(err), response.ErrorT(checkout.UserMessage(err)))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Subscription history
// @Tags         Subscription
// @Produce      json
// @Success      200  {object}  handlers.RespSubscriptionHistory
// @Router       /api/v1/subscription/history [get]
func ApiSubscriptionHistory(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.History(c.Request.Context(), middleware.IdentityFrom(c).UserID)
		if err != nil {
			c.JSON(upstreamStatus(err), response.ErrorT(subsapi.UserMessage(err, "Failed to fetch subscription history")))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      Billing history
// @Tags         Subscription
// @Produce      json
// @Success      200  {object}  handlers.RespBillingHistory
// @Router       /api/v1/subscription/billing [get]
func ApiBillingHistory(api subsapi.ClientAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := api.GetUserBillingHistory(c.Request.Context(), middleware.IdentityFrom(c).UserID)
		if err != nil {
			c.JSON(upstreamStatus(err), response.ErrorT(subsapi.UserMessage(err, "Failed to fetch billing history")))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

func upstreamStatus(err error) int {
	if subsapi.IsNetworkError(err) {
		return http.StatusBadGateway
	}
	return http.StatusBadRequest
}

func purchaseStatus(err error) int {
	if errors.Is(err, checkout.ErrPaymentSystemUnavailable) || errors.Is(err, checkout.ErrCancelSystemUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

func RegisterSubscriptionRoutes(r gin.IRouter, svc *checkout.Service, api subsapi.ClientAPI, limiter gin.HandlerFunc) {
	r.GET("/page", ApiSubscriptionPage(svc))
	r.GET("/plans", ApiListPlans(api))
	r.GET("/plans/:planId", ApiGetPlan(api))
	r.POST("/purchase", limiter, ApiPurchase(svc))
	r.POST("/cancel", limiter, middleware.RequireIdentity(), ApiCancel(svc))
	r.GET("/history", middleware.RequireIdentity(), ApiSubscriptionHistory(svc))
	r.GET("/billing", middleware.RequireIdentity(), ApiBillingHistory(api))
}
