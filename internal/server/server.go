package server

import (
	"net/http"

	"surplus-marketplace/internal/handler"
	appmw "surplus-marketplace/internal/middleware"
	"surplus-marketplace/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo *echo.Echo

	authHandler    *handler.AuthHandler
	listingHandler *handler.ListingHandler
	orderHandler   *handler.OrderHandler
	vendorHandler  *handler.VendorHandler
	adminHandler   *handler.AdminHandler
	userHandler    *handler.UserHandler

	protect echo.MiddlewareFunc
}

type Deps struct {
	JWTSecret string
	UploadDir string

	UserRepo   repository.UserRepository
	VendorRepo repository.VendorRepository

	AuthHandler    *handler.AuthHandler
	ListingHandler *handler.ListingHandler
	OrderHandler   *handler.OrderHandler
	VendorHandler  *handler.VendorHandler
	AdminHandler   *handler.AdminHandler
	UserHandler    *handler.UserHandler
}

func NewServer(deps Deps) *Server {
	e := echo.New()

	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Static("/uploads", deps.UploadDir)

	s := &Server{
		echo:           e,
		authHandler:    deps.AuthHandler,
		listingHandler: deps.ListingHandler,
		orderHandler:   deps.OrderHandler,
		vendorHandler:  deps.VendorHandler,
		adminHandler:   deps.AdminHandler,
		userHandler:    deps.UserHandler,
		protect:        appmw.Protect(deps.JWTSecret, deps.UserRepo, deps.VendorRepo),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- auth --------
	auth := api.Group("/auth")
	auth.POST("/register-user", s.authHandler.RegisterUser)
	auth.POST("/register-vendor", s.authHandler.RegisterVendor)
	auth.POST("/login", s.authHandler.Login)

	// -------- listings --------
	listings := api.Group("/listings")
	listings.GET("", s.listingHandler.Browse)
	listings.GET("/:id", s.listingHandler.GetByID)
	listings.POST("", s.listingHandler.Create, s.protect, appmw.RequireVendor)
	listings.PUT("/:id", s.listingHandler.Update, s.protect, appmw.RequireVendor)
	listings.DELETE("/:id", s.listingHandler.Delete, s.protect, appmw.RequireVendor)

	// -------- orders --------
	orders := api.Group("/orders", s.protect)
	orders.POST("", s.orderHandler.Create)
	orders.POST("/verify", s.orderHandler.VerifyPayment)
	orders.GET("/myorders", s.orderHandler.MyOrders)
	orders.POST("/:id/simulate-payment", s.orderHandler.SimulatePayment)

	// -------- vendors --------
	vendors := api.Group("/vendors", s.protect, appmw.RequireVendor)
	vendors.GET("/listings", s.vendorHandler.Listings)
	vendors.GET("/profile", s.vendorHandler.Profile)
	vendors.GET("/orders", s.vendorHandler.Orders)
	vendors.POST("/scan", s.vendorHandler.ScanQR)
	vendors.POST("/verify-code", s.vendorHandler.VerifyCode)

	// -------- admin --------
	admin := api.Group("/admin", s.protect, appmw.RequireAdmin)
	admin.GET("/pending-vendors", s.adminHandler.PendingVendors)
	admin.GET("/vendors", s.adminHandler.ListVendors)
	admin.PUT("/vendors/:id/toggle", s.adminHandler.ToggleVendorApproval)
	admin.GET("/vendors/:id/listings", s.adminHandler.VendorListings)
	admin.DELETE("/vendors/:id", s.adminHandler.DeleteVendor)
	admin.GET("/users", s.adminHandler.ListUsers)
	admin.PUT("/users/:id/toggle", s.adminHandler.ToggleUserBlock)
	admin.GET("/users/:id/orders", s.adminHandler.UserOrders)

	// -------- users --------
	users := api.Group("/users", s.protect)
	users.GET("/profile", s.userHandler.Profile)
	users.PUT("/profile", s.userHandler.UpdateProfile)
	users.DELETE("/profile", s.userHandler.DeleteAccount)
	users.GET("/cart", s.userHandler.GetCart)
	users.POST("/cart", s.userHandler.AddToCart)
	users.DELETE("/cart/:listingId", s.userHandler.RemoveFromCart)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
