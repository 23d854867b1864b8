package handlers

import "github.com/gofiber/fiber/v2"

// Routes groups the handlers mounted under /api.
type Routes struct {
	Guest     *GuestHandler
	Voice     *VoiceHandler
	Website   *WebsiteHandler
	GuestAuth fiber.Handler
}

// Register mounts the API. /website/user/:userId is registered before
// /website/:slug so a slug route never swallows it.
func (r Routes) Register(router fiber.Router) {
	api := router.Group("/api")

	guest := api.Group("/guest")
	guest.Post("/create", r.Guest.Create)

	voice := api.Group("/voice", r.GuestAuth)
	voice.Post("/process", r.Voice.Process)

	website := api.Group("/website")
	website.Post("/save", r.GuestAuth, r.Website.Save)
	website.Get("/user/:userId", r.Website.ListByUser)
	website.Get("/:slug", r.Website.GetBySlug)
}
