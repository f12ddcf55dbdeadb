package handlers

import (
	"log"
	"net/http"
	"time"

	"bitemebuddy/models"
	"bitemebuddy/statemachine"
	"bitemebuddy/store"

	"github.com/gin-gonic/gin"
)

// Home lists the services on the landing page
func (h *Handler) Home(c *gin.Context) {
	services, err := h.catalog.Services(c.Request.Context())
	if err != nil {
		log.Printf("home: list services: %v", err)
	}
	h.page(c, http.StatusOK, "index.html", "Home", gin.H{"Services": services})
}

// Static renders one of the content-only pages
func (h *Handler) Static(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.page(c, http.StatusOK, name, title, gin.H{
			"SupportEmail": h.cfg.Admin.Email,
			"SupportPhone": h.cfg.Admin.Phone,
		})
	}
}

// NotFound is the fallback for unknown routes
func (h *Handler) NotFound(c *gin.Context) {
	fail(c, store.ErrNotFound)
}

// Health reports whether the database answers
func (h *Handler) Health(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if err := h.store.Ping(c.Request.Context()); err != nil {
		log.Printf("health: %v", err)
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"service":   h.cfg.AppName,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// GetStateMachineInfo returns the full state machine for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	info := make([]gin.H, len(transitions))
	for i, t := range transitions {
		info[i] = gin.H{"from": t.From, "to": t.To, "actor": t.Actor}
	}
	var terminal []models.OrderStatus
	for _, s := range models.AllStatuses {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": terminal,
		"description":     "Order lifecycle from placement to OTP-confirmed delivery",
	})
}
