// Package http содержит HTTP сервер notebook на fiber.
package http

import (
	"github.com/gofiber/fiber/v3"

	svc "notebook/internal/notebook/ports/services"
)

// ServerConfig - параметры fiber приложения.
type ServerConfig struct {
	BodyLimit int
}

// NewApp создает fiber приложение с обработчиком ошибок и лимитом тела запроса.
func NewApp(cfg ServerConfig, fiberCfg fiber.Config) *fiber.App {
	fiberCfg.ErrorHandler = ErrorHandler
	if cfg.BodyLimit > 0 {
		fiberCfg.BodyLimit = cfg.BodyLimit
	}
	return fiber.New(fiberCfg)
}

// SetupRouter настраивает маршруты.
func SetupRouter(app *fiber.App, h *Handler, sessions svc.SessionService, cookieName string) {
	app.Use(NewRequestIDMiddleware())
	app.Use(NewRecoveryMiddleware())
	app.Use(NewLoggerMiddleware())
	app.Use(NewSessionMiddleware(sessions, cookieName))

	app.Get("/", h.Root)
	app.Get("/public/", h.Public)
	app.Post("/login", h.Login)
	app.Get("/logout/", h.Logout)

	user := RequireUser()
	app.Get("/private/", user, h.Private)
	app.Post("/write_note", user, h.WriteNote)
	app.Get("/delete_note/:note_id", user, h.DeleteNote)
	app.Post("/upload_image", user, h.UploadImage)
	app.Get("/delete_image/:image_uid", user, h.DeleteImage)
	app.Get("/image/:image_uid", user, h.Image)

	admin := RequireAdmin()
	app.Get("/admin/", admin, h.Admin)
	app.Post("/add_user", admin, h.AddUser)
	app.Get("/delete_user/:user_id/", admin, h.DeleteUser)
}
