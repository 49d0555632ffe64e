package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zh1gn/FoundItBot/internal/lifecycle"
	"github.com/zh1gn/FoundItBot/internal/models"
)

// AdminHandler serves the administrator endpoints.
type AdminHandler struct {
	engine *lifecycle.Engine
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(engine *lifecycle.Engine) *AdminHandler {
	return &AdminHandler{engine: engine}
}

// Pending lists payment reports awaiting activation.
func (h *AdminHandler) Pending(c *gin.Context) {
	actor, ok := adminActor(c)
	if !ok {
		return
	}

	result, errHandle := h.engine.PendingPayments(c.Request.Context(), actor)
	if errHandle != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list pending payments failed"})
		return
	}

	switch res := result.(type) {
	case lifecycle.Unauthorized:
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
	case lifecycle.PendingList:
		out := make([]gin.H, 0, len(res.Payments))
		for _, payment := range res.Payments {
			out = append(out, pendingPaymentJSON(payment))
		}
		c.JSON(http.StatusOK, gin.H{"payments": out})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected result"})
	}
}

type activateRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Plan   string `json:"plan" binding:"required"`
}

// Activate starts a subscription term for a user and consumes their matching
// pending payments.
func (h *AdminHandler) Activate(c *gin.Context) {
	actor, ok := adminActor(c)
	if !ok {
		return
	}

	var req activateRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and plan are required"})
		return
	}

	result, errHandle := h.engine.ActivatePlan(c.Request.Context(), actor, req.UserID, req.Plan)
	if errHandle != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "activate plan failed"})
		return
	}

	switch res := result.(type) {
	case lifecycle.Unauthorized:
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
	case lifecycle.ValidationError:
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Reason, "field": res.Field})
	case lifecycle.PlanActivated:
		c.JSON(http.StatusOK, gin.H{
			"user_id":    res.UserID,
			"plan":       res.Plan,
			"expires_at": res.ExpiresAt,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected result"})
	}
}

// adminActor builds the actor from the token claims loaded by the auth
// middleware. The engine still rejects ids that do not match the configured
// administrator exactly.
func adminActor(c *gin.Context) (lifecycle.Actor, bool) {
	id, ok := c.Get(adminIDContextKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing admin context"})
		return lifecycle.Actor{}, false
	}
	adminID, ok := id.(int64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing admin context"})
		return lifecycle.Actor{}, false
	}
	return lifecycle.Actor{ID: adminID}, true
}

func pendingPaymentJSON(payment models.PendingPayment) gin.H {
	out := gin.H{
		"id":         payment.ID,
		"user_id":    payment.UserID,
		"plan":       payment.Plan,
		"created_at": payment.CreatedAt,
	}
	if payment.User.ID != 0 {
		out["handle"] = payment.User.Handle
		out["full_name"] = payment.User.FullName
	}
	return out
}
