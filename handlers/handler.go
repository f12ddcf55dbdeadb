package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"
	"time"

	"bitemebuddy/auth"
	"bitemebuddy/config"
	"bitemebuddy/middleware"
	"bitemebuddy/models"
	"bitemebuddy/services"
	"bitemebuddy/store"

	"github.com/gin-gonic/gin"
)

// Handler holds what the HTTP layer needs to serve every portal
type Handler struct {
	cfg      config.Config
	store    *store.Store
	tokens   *auth.Tokens
	orders   *services.OrderService
	delivery *services.DeliveryService
	catalog  *services.Catalog
	uploads  *services.Uploader
	now      func() time.Time
}

type Deps struct {
	Config   config.Config
	Store    *store.Store
	Tokens   *auth.Tokens
	Orders   *services.OrderService
	Delivery *services.DeliveryService
	Catalog  *services.Catalog
	Uploads  *services.Uploader
}

var registerOnce sync.Once

func New(d Deps) *Handler {
	registerOnce.Do(func() {
		if err := RegisterValidators(); err != nil {
			log.Printf("handlers: register validators: %v", err)
		}
	})
	return &Handler{
		cfg:      d.Config,
		store:    d.Store,
		tokens:   d.Tokens,
		orders:   d.Orders,
		delivery: d.Delivery,
		catalog:  d.Catalog,
		uploads:  d.Uploads,
		now:      time.Now,
	}
}

// page renders a full page through the base layout
func (h *Handler) page(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["AppName"] = h.cfg.AppName
	if _, ok := data["User"]; !ok {
		data["User"] = middleware.CurrentUser(c)
	}
	c.HTML(status, name, data)
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// paramID parses a positive numeric path parameter. Anything else is
// reported as not found.
func paramID(c *gin.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || n == 0 {
		return 0, store.ErrNotFound
	}
	return uint(n), nil
}

// redirect sends HTMX clients an HX-Redirect and browsers a 303
func redirect(c *gin.Context, location string) {
	if middleware.IsHTMX(c) {
		c.Header("HX-Redirect", location)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}

func dashboardPath(role models.UserRole) string {
	switch role {
	case models.RoleAdmin:
		return "/admin/dashboard"
	case models.RoleTeamMember:
		return "/team/dashboard"
	}
	return "/customer/dashboard"
}

// saveImage stores the optional "image" form file and returns its URL, or ""
// when no file was sent
func (h *Handler) saveImage(c *gin.Context, kind string) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", store.Invalid("image", "Could not read the uploaded image")
	}
	if emptyUpload(fh) {
		return "", nil
	}
	return h.uploads.Save(fh, kind)
}

func emptyUpload(fh *multipart.FileHeader) bool {
	return fh == nil || fh.Filename == "" || fh.Size == 0
}

func (h *Handler) clearCookie(c *gin.Context, name string) {
	h.setCookie(c, name, "", -1)
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.cfg.CookieSecure(), true)
}
