package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/handlers"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/service/token"
)

type Deps struct {
	DB              *gorm.DB
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CategoryHandler *handlers.CategoryHandler
	ToppingHandler  *handlers.ToppingHandler
	BusinessHandler *handlers.BusinessHandler
	TableHandler    *handlers.TableHandler
	OrderHandler    *handlers.OrderHandler
	ReportHandler   *handlers.ReportHandler
	SearchHandler   *handlers.SearchHandler
	PosHandler      *handlers.PosHandler
	ServiceHandler  *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.LogOut)
	auth.POST("/change-password", d.AuthHandler.ChangePassword, d.ServiceHandler.AutoRefreshMiddleware)
	auth.GET("/verify", d.AuthHandler.Verify, d.ServiceHandler.AutoRefreshMiddleware)
	auth.GET("/me", d.AuthHandler.Me, d.ServiceHandler.AutoRefreshMiddleware)

	// Public reads for the customer menu.
	v1.GET("/businesses/:ref", d.BusinessHandler.GetBusiness)
	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	v1.GET("/categories", d.CategoryHandler.GetCategories)
	v1.GET("/topping-groups", d.ToppingHandler.GetToppingGroups)
	v1.GET("/search", d.SearchHandler.Search)
	v1.GET("/tables/:id/qr", d.TableHandler.TableQR)

	admin := v1.Group("/admin", d.ServiceHandler.AutoRefreshMiddlewareAdmin)
	admin.POST("/register", d.AuthHandler.Register)

	admin.POST("/businesses", d.BusinessHandler.CreateBusiness)
	admin.PATCH("/business", d.BusinessHandler.PatchBusiness)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	admin.POST("/categories", d.CategoryHandler.CreateCategory)
	admin.PATCH("/categories/:id", d.CategoryHandler.PatchCategory)
	admin.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory)

	admin.POST("/topping-groups", d.ToppingHandler.CreateToppingGroup)
	admin.PATCH("/topping-groups/:id", d.ToppingHandler.PatchToppingGroup)
	admin.DELETE("/topping-groups/:id", d.ToppingHandler.DeleteToppingGroup)

	admin.GET("/tables", d.TableHandler.GetTables)
	admin.POST("/tables", d.TableHandler.CreateTable)
	admin.DELETE("/tables/:id", d.TableHandler.DeleteTable)

	admin.GET("/orders", d.OrderHandler.GetOrders)
	admin.GET("/orders/:id", d.OrderHandler.GetOrder)
	admin.GET("/reports/sales", d.ReportHandler.SalesReport)

	posGroup := v1.Group("/pos/:terminal", d.ServiceHandler.AutoRefreshMiddleware)

	posGroup.DELETE("", d.PosHandler.ResetTerminal)

	posGroup.GET("/cart", d.PosHandler.GetCart)
	posGroup.POST("/cart/items", d.PosHandler.AddItem)
	posGroup.PATCH("/cart/items/:itemID", d.PosHandler.PatchItem)
	posGroup.DELETE("/cart/items/:itemID", d.PosHandler.RemoveItem)

	posGroup.POST("/kitchen", d.PosHandler.SendToKitchen)

	posGroup.POST("/freeze", d.PosHandler.FreezeOrder)
	posGroup.POST("/frozen/:orderID/edit", d.PosHandler.EditFrozenOrder)
	posGroup.POST("/frozen/:orderID/recover", d.PosHandler.RecoverFrozenOrder)

	posGroup.POST("/checkout", d.PosHandler.ProcessOrder)
	posGroup.POST("/checkout/details", d.PosHandler.SubmitDetails)
	posGroup.POST("/checkout/payment", d.PosHandler.SubmitPayment)
	posGroup.POST("/checkout/confirm", d.PosHandler.ConfirmOrder)
	posGroup.DELETE("/checkout", d.PosHandler.CancelCheckout)

	posGroup.GET("/orders", d.PosHandler.GetRoster)
	posGroup.PATCH("/orders/:orderID/status", d.PosHandler.UpdateStatus)
	posGroup.POST("/orders/:orderID/finalize", d.PosHandler.FinalizeOrder)
}
