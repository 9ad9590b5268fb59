package handler

import (
	"go-factory-planner/internal/middleware"
	"go-factory-planner/internal/model"
	"go-factory-planner/internal/service"
	"go-factory-planner/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Services holds everything the HTTP layer talks to
type Services struct {
	Materials   service.MaterialService
	Products    service.ProductService
	Production  service.ProductionService
	Dashboard   service.DashboardService
	Auth        service.AuthService
	AuthEnabled bool
	Hub         *ws.Hub
}

func SetupRoutes(app *fiber.App, s Services) {
	materialHandler := NewMaterialHandler(s.Materials)
	productHandler := NewProductHandler(s.Products)
	productionHandler := NewProductionHandler(s.Production)
	dashHandler := NewDashboardHandler(s.Dashboard)
	authHandler := NewAuthHandler(s.Auth)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ============ PUBLIC ROUTES ============
	auth := app.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	requireAuth := middleware.RequireAuth(s.AuthEnabled, s.Auth)
	canView := middleware.RequirePrivilege(model.PrivProductionView)

	// Raw material routes
	materials := app.Group("/materials", requireAuth)
	materials.Get("/", canView, materialHandler.GetMaterials)
	materials.Get("/:id", canView, materialHandler.GetMaterial)
	materials.Post("/", middleware.RequirePrivilege(model.PrivMaterialWrite), materialHandler.CreateMaterial)
	materials.Put("/:id", middleware.RequirePrivilege(model.PrivMaterialWrite), materialHandler.UpdateMaterial)
	materials.Delete("/:id", middleware.RequirePrivilege(model.PrivMaterialWrite), materialHandler.DeleteMaterial)

	// Product routes
	products := app.Group("/products", requireAuth)
	products.Get("/", canView, productHandler.GetProducts)
	products.Get("/:id", canView, productHandler.GetProduct)
	products.Post("/", middleware.RequirePrivilege(model.PrivProductWrite), productHandler.CreateProduct)
	products.Post("/:id/materials", middleware.RequirePrivilege(model.PrivProductWrite), productHandler.AddMaterial)
	products.Delete("/:id", middleware.RequirePrivilege(model.PrivProductWrite), productHandler.DeleteProduct)

	// Production routes
	production := app.Group("/production-suggestion", requireAuth)
	production.Get("/", canView, productionHandler.GetSuggestion)
	production.Get("/export", canView, productionHandler.ExportSuggestion)
	production.Post("/produce/:id", middleware.RequirePrivilege(model.PrivProductionCommit), productionHandler.Produce)

	runs := app.Group("/production-runs", requireAuth, canView)
	runs.Get("/", productionHandler.GetRuns)
	runs.Get("/:id", productionHandler.GetRun)

	// Dashboard routes
	dashboard := app.Group("/dashboard", requireAuth, canView)
	dashboard.Get("/stats", dashHandler.GetDashboardStats)
	dashboard.Get("/production-movement", dashHandler.GetProductionMovement)

	// WebSocket Route
	if s.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(func(c *websocket.Conn) {
			s.Hub.Register <- c
			defer func() { s.Hub.Unregister <- c }()

			for {
				// Keep alive loop
				if _, _, err := c.ReadMessage(); err != nil {
					break
				}
			}
		}))
	}
}
