package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"shopapi/internal/handlers"
	authmw "shopapi/internal/middleware/auth"
	"shopapi/internal/session"
)

type Deps struct {
	DB             *gorm.DB
	Sessions       *session.Service
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	CartHandler    *handlers.CartHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	requireSession := authmw.RequireSession(d.Sessions)

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/logout", d.AuthHandler.Logout, requireSession)

	// Every /api route is authenticated, reads included.
	api := e.Group("/api", requireSession)

	products := api.Group("/products")
	products.POST("/add", d.ProductHandler.CreateProduct)
	products.GET("", d.ProductHandler.ListProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.PUT("/update/:id", d.ProductHandler.UpdateProduct)
	products.DELETE("/delete/:id", d.ProductHandler.DeleteProduct)

	cart := api.Group("/cart")
	cart.POST("/add/:id", d.CartHandler.AddToCart)
	cart.GET("", d.CartHandler.GetCart)
	cart.DELETE("/:id", d.CartHandler.RemoveFromCart)
}
