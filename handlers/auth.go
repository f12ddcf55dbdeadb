package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"bitemebuddy/middleware"
	"bitemebuddy/models"
	"bitemebuddy/store"

	"github.com/gin-gonic/gin"
)

type loginScreen struct {
	title      string
	action     string
	chooseRole bool
}

var (
	userLogin  = loginScreen{title: "Log in", action: "/auth/login", chooseRole: true}
	adminLogin = loginScreen{title: "Admin log in", action: "/auth/admin-login"}
)

func (h *Handler) renderLogin(c *gin.Context, status int, screen loginScreen, form LoginForm, errMsg string) {
	if form.Role == "" {
		form.Role = models.RoleCustomer
	}
	h.page(c, status, "login.html", screen.title, gin.H{
		"Action":     screen.action,
		"ChooseRole": screen.chooseRole,
		"Username":   form.Username,
		"Role":       form.Role,
		"Error":      errMsg,
	})
}

// LoginPage shows the customer and team member login form
func (h *Handler) LoginPage(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		c.Redirect(http.StatusFound, dashboardPath(user.Role))
		return
	}
	h.renderLogin(c, http.StatusOK, userLogin, LoginForm{}, "")
}

func (h *Handler) AdminLoginPage(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, adminLogin, LoginForm{Role: models.RoleAdmin}, "")
}

// Login checks the credentials and that the account holds the selected role
func (h *Handler) Login(c *gin.Context) {
	h.login(c, userLogin, func(user *models.User, form LoginForm) string {
		if user.Role != form.Role {
			return "User is not a " + form.Role.Label()
		}
		return ""
	})
}

// AdminLogin only lets admins through
func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(c, adminLogin, func(user *models.User, _ LoginForm) string {
		if user.Role != models.RoleAdmin {
			return "Access denied. Admin privileges required."
		}
		return ""
	})
}

func (h *Handler) login(c *gin.Context, screen loginScreen, roleCheck func(*models.User, LoginForm) string) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		msg, _ := message(formError(err))
		h.renderLogin(c, http.StatusBadRequest, screen, form, msg)
		return
	}
	if form.Role == "" {
		form.Role = models.RoleCustomer
	}
	if !form.Role.Valid() {
		h.renderLogin(c, http.StatusBadRequest, screen, form, "Invalid role")
		return
	}

	user, err := h.store.Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		h.renderLogin(c, http.StatusUnauthorized, screen, form, "Invalid username or password")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	if msg := roleCheck(user, form); msg != "" {
		h.renderLogin(c, http.StatusForbidden, screen, form, msg)
		return
	}

	if err := h.signIn(c, user); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, dashboardPath(user.Role))
}

// signIn records a session and sets the access_token and session_id cookies
func (h *Handler) signIn(c *gin.Context, user *models.User) error {
	session, err := h.store.StartSession(c.Request.Context(), user.ID, h.now())
	if err != nil {
		return err
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		return err
	}
	maxAge := int(h.tokens.TTL().Seconds())
	h.setCookie(c, middleware.TokenCookie, token, maxAge)
	h.setCookie(c, middleware.SessionCookie, strconv.FormatUint(uint64(session.ID), 10), maxAge)
	return nil
}

func (h *Handler) renderRegister(c *gin.Context, status int, form RegisterForm, errMsg string) {
	form.Password, form.ConfirmPassword = "", ""
	h.page(c, status, "register.html", "Sign up", gin.H{"Form": form, "Error": errMsg})
}

func (h *Handler) RegisterPage(c *gin.Context) {
	h.renderRegister(c, http.StatusOK, RegisterForm{}, "")
}

// Register creates a customer account and logs it in
func (h *Handler) Register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		msg, _ := message(formError(err))
		h.renderRegister(c, http.StatusBadRequest, form, msg)
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), store.NewUser{
		Name:     form.Name,
		Username: form.Username,
		Email:    form.Email,
		Phone:    form.Phone,
		Password: form.Password,
		Address:  form.Address,
		Role:     models.RoleCustomer,
	})
	if err != nil {
		if msg, ok := message(err); ok {
			h.renderRegister(c, http.StatusBadRequest, form, msg)
			return
		}
		fail(c, err)
		return
	}

	if err := h.signIn(c, user); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, dashboardPath(user.Role))
}

// Logout closes the session named by the session_id cookie, if any, and
// clears the auth cookies
func (h *Handler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(middleware.SessionCookie); err == nil {
		if id, err := strconv.ParseUint(raw, 10, 0); err == nil {
			err := h.store.EndSession(c.Request.Context(), uint(id), h.now())
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				log.Printf("logout: end session %d: %v", id, err)
			}
		}
	}
	h.clearCookie(c, middleware.TokenCookie)
	h.clearCookie(c, middleware.SessionCookie)
	h.clearCookie(c, cartCookie)
	c.Redirect(http.StatusFound, "/")
}

// GetProfile returns the authenticated user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c)})
}
