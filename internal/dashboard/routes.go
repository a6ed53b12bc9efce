package dashboard

import (
	"net/http"
	"strings"

	"github.com/cutboard/cutboard/internal/batch"
	"github.com/cutboard/cutboard/internal/kanban"
	"github.com/cutboard/cutboard/internal/lifecycle"
	"github.com/cutboard/cutboard/internal/models"
	"github.com/cutboard/cutboard/internal/payment"
	"github.com/cutboard/cutboard/internal/pricing"
	"github.com/cutboard/cutboard/internal/project"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, opts StartOpts) {
	api := router.Group("/api")

	api.GET("/board", handleBoard(opts))
	api.GET("/projects", handleProjectList(opts))
	api.GET("/projects/:id", handleProjectDetail(opts))
	api.POST("/projects/:id/archive", handleArchive(opts))
	api.POST("/projects/:id/unarchive", handleUnarchive(opts))
	api.POST("/projects/:id/checkout", handleCheckout(opts))
	api.POST("/quote", handleQuote(opts))
	api.PATCH("/videos/:id/status", handleVideoStatus(opts))
	api.GET("/events", handleSSE(opts.DB))
}

func handleBoard(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		columns, err := kanban.Board(opts.DB)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"columns": columns})
	}
}

func handleProjectList(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := project.ListFilters{
			Status:    models.ProjectStatus(c.Query("status")),
			CreatorID: c.Query("creator"),
			EditorID:  c.Query("editor"),
		}
		if v := c.Query("archived"); v != "" {
			archived := v == "true"
			filters.Archived = &archived
		}
		projects, err := project.List(opts.DB, filters)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"projects": projects})
	}
}

func handleProjectDetail(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := GetProjectDetail(opts.DB, c.Param("id"), opts.Pricing)
		if err != nil {
			status := http.StatusInternalServerError
			if strings.Contains(err.Error(), "not found") {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

func handleArchive(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := batch.Archive(opts.DB, c.Param("id")); err != nil {
			status := http.StatusConflict
			if strings.Contains(err.Error(), "not found") {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"archived": true})
	}
}

func handleUnarchive(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := batch.Unarchive(opts.DB, c.Param("id")); err != nil {
			status := http.StatusInternalServerError
			if strings.Contains(err.Error(), "not found") {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"archived": false})
	}
}

func handleCheckout(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opts.Payments == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments not configured"})
			return
		}
		quote, err := payment.Checkout(c.Request.Context(), opts.DB, opts.Payments, c.Param("id"), opts.Pricing)
		if err != nil {
			status := http.StatusBadGateway
			if strings.Contains(err.Error(), "not found") {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"quote": quote})
	}
}

// quoteRequest is the pricing preview payload.
type quoteRequest struct {
	BasePriceCents int64               `json:"base_price_cents"`
	Quantity       int                 `json:"quantity"`
	DeliveryMode   models.DeliveryMode `json:"delivery_mode"`
}

func handleQuote(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req quoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.BasePriceCents <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "base_price_cents must be positive"})
			return
		}
		if req.DeliveryMode == "" {
			req.DeliveryMode = models.DeliverySequential
		}
		if req.DeliveryMode != models.DeliverySequential && req.DeliveryMode != models.DeliverySimultaneous {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown delivery mode"})
			return
		}
		if req.Quantity > 1 && !opts.Pricing.QuantityInRange(req.Quantity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity outside policy range"})
			return
		}
		quote := pricing.Calculate(req.BasePriceCents, req.Quantity, req.DeliveryMode, opts.Pricing)
		c.JSON(http.StatusOK, gin.H{"quote": quote})
	}
}

// videoStatusRequest is the per-video transition payload.
type videoStatusRequest struct {
	Status lifecycle.Status `json:"status"`
}

func handleVideoStatus(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req videoStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := batch.SetVideoStatus(opts.DB, c.Param("id"), req.Status); err != nil {
			status := http.StatusBadRequest
			if strings.Contains(err.Error(), "not found") {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": req.Status})
	}
}
