package routes

import (
	"net/http"

	"bitemebuddy/auth"
	"bitemebuddy/config"
	"bitemebuddy/handlers"
	"bitemebuddy/middleware"
	"bitemebuddy/models"
	"bitemebuddy/views"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, tokens *auth.Tokens, users middleware.UserLoader, uploads config.UploadConfig) {
	authRequired := middleware.AuthRequired(tokens, users)
	optionalUser := middleware.OptionalUser(tokens, users)

	// ── Static files ───────────────────────────────────────────────
	r.StaticFS("/static/assets", http.FS(views.Static()))
	r.Static(uploads.URLPrefix, uploads.Dir)

	// ── Public pages ───────────────────────────────────────────────
	public := r.Group("/", optionalUser)
	{
		public.GET("/", h.Home)
		public.GET("/about", h.Static("about.html", "About"))
		public.GET("/contact", h.Static("contact.html", "Contact"))
		public.GET("/privacy", h.Static("privacy.html", "Privacy policy"))
		public.GET("/terms", h.Static("terms.html", "Terms of service"))
	}
	r.GET("/health", h.Health)
	r.NoRoute(optionalUser, h.NotFound)

	// ── Auth ───────────────────────────────────────────────────────
	authGroup := r.Group("/auth", optionalUser)
	{
		authGroup.GET("/login", h.LoginPage)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/admin-login", h.AdminLoginPage)
		authGroup.POST("/admin-login", h.AdminLogin)
		authGroup.GET("/register", h.RegisterPage)
		authGroup.POST("/register", h.Register)
		authGroup.GET("/logout", h.Logout)
	}

	// ── JSON API ───────────────────────────────────────────────────
	api := r.Group("/api")
	{
		api.GET("/state-machine", h.GetStateMachineInfo)
		api.GET("/profile", authRequired, h.GetProfile)

		adminAPI := api.Group("/admin", authRequired, middleware.RoleRequired(models.RoleAdmin))
		adminAPI.GET("/orders", h.AdminGetAllOrders)
		adminAPI.GET("/users", h.AdminGetAllUsers)
	}

	// ── Customer portal ────────────────────────────────────────────
	customer := r.Group("/customer", authRequired, middleware.RoleRequired(models.RoleCustomer))
	{
		customer.GET("/dashboard", h.CustomerDashboard)
		customer.GET("/services", h.CustomerServices)
		customer.GET("/service/:id/menu", h.ServiceMenu)
		customer.POST("/add-to-cart", h.AddToCart)
		customer.POST("/update-cart", h.UpdateCart)
		customer.GET("/cart", h.Cart)
		customer.POST("/place-order", h.PlaceOrder)
		customer.GET("/my-orders", h.GetMyOrders)
		customer.GET("/order/:id", h.GetOrderDetail)
		customer.POST("/order/:id/cancel", h.CancelOrder)
	}

	// ── Team member portal ─────────────────────────────────────────
	team := r.Group("/team", authRequired, middleware.RoleRequired(models.RoleTeamMember))
	{
		team.GET("/dashboard", h.TeamDashboard)
		team.GET("/orders", h.GetMyDeliveries)
		team.GET("/plans", h.TeamPlans)
		team.POST("/order/:id/start-delivery", h.StartDelivery)
		team.POST("/order/:id/request-otp", h.RequestOTP)
		team.POST("/order/:id/verify-otp", h.VerifyOTP)
	}

	// ── Admin portal ───────────────────────────────────────────────
	admin := r.Group("/admin", authRequired, middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/dashboard", h.AdminDashboard)
		admin.GET("/online-time", h.OnlineTime)

		// Orders
		admin.GET("/orders", h.AdminOrders)
		admin.GET("/orders/:id/row", h.OrderRow)
		admin.GET("/orders/:id/assign-form", h.AssignForm)
		admin.POST("/orders/:id/assign", h.AssignOrder)
		admin.POST("/orders/:id/status", h.AdminForceOrderStatus)
		admin.POST("/orders/:id/cancel", h.AdminCancelOrder)

		// Services and menus
		admin.GET("/services", h.AdminServices)
		admin.POST("/services", h.CreateService)
		admin.GET("/services/:id", h.ServiceRow)
		admin.GET("/services/:id/edit", h.EditServiceRow)
		admin.POST("/services/:id", h.UpdateService)
		admin.DELETE("/services/:id", h.DeleteService)
		admin.GET("/services/:id/menu", h.AdminMenu)
		admin.POST("/services/:id/menu", h.AddMenuItem)
		admin.GET("/menu/:id", h.MenuItemRow)
		admin.GET("/menu/:id/edit", h.EditMenuItemRow)
		admin.POST("/menu/:id", h.UpdateMenuItem)
		admin.DELETE("/menu/:id", h.DeleteMenuItem)

		// People
		admin.GET("/team-members", h.AdminTeamMembers)
		admin.POST("/team-members", h.CreateTeamMember)
		admin.DELETE("/team-members/:id", h.DeleteTeamMember)
		admin.GET("/customers", h.AdminCustomers)
		admin.GET("/customers/:id", h.AdminCustomerDetail)
		admin.DELETE("/customers/:id", h.DeleteCustomer)
		admin.GET("/plans", h.AdminPlans)
		admin.POST("/plans", h.CreatePlan)
		admin.DELETE("/plans/:id", h.DeletePlan)
	}
}
