package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atultingre/society-management-backend/internal/houses"
	"github.com/atultingre/society-management-backend/internal/users"
)

type Router struct {
	AuthHandler  *users.Handler
	HouseHandler *houses.Handler
	AuthMW       fiber.Handler
	AuthLimiter  fiber.Handler
	WriteLimiter fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Post("/api/auth/signup", r.AuthLimiter, r.AuthHandler.Signup)
	app.Post("/api/auth/login", r.AuthLimiter, r.AuthHandler.Login)

	// The register list and its PDF rendering are deliberately public.
	app.Get("/api/houses", r.HouseHandler.ListAll)
	app.Get("/api/houses/report", r.HouseHandler.Report)

	app.Post("/api/house/:wing/:houseNumber/:userId", r.WriteLimiter, r.AuthMW, r.HouseHandler.Create)
	app.Put("/api/house/:wing/:houseNumber/:userId", r.WriteLimiter, r.AuthMW, r.HouseHandler.Update)
	app.Get("/api/house/:wing/:houseNumber/:userId", r.AuthMW, r.HouseHandler.Get)
	app.Delete("/api/house/:wing/:houseNumber/:userId", r.WriteLimiter, r.AuthMW, r.HouseHandler.Delete)
}
