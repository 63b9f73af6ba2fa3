package http

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notebook/internal/notebook/domain/services"
	"notebook/internal/notebook/ports/api"
	svc "notebook/internal/notebook/ports/services"
	"notebook/pkg/logger"
)

var errUnauthorized = services.ErrUnauthorized

// CookieConfig - параметры cookie сессии.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Handler содержит HTTP обработчики приложения.
type Handler struct {
	auth     api.AuthUseCase
	deleter  api.UserDeleter
	notes    api.NoteUseCase
	images   api.ImageUseCase
	sessions svc.SessionService
	cookie   CookieConfig
}

// NewHandler создает обработчики.
func NewHandler(
	auth api.AuthUseCase,
	deleter api.UserDeleter,
	notes api.NoteUseCase,
	images api.ImageUseCase,
	sessions svc.SessionService,
	cookie CookieConfig,
) *Handler {
	return &Handler{
		auth:     auth,
		deleter:  deleter,
		notes:    notes,
		images:   images,
		sessions: sessions,
		cookie:   cookie,
	}
}

// Root - стартовая страница.
func (h *Handler) Root(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "notebook",
		"user_id": currentUser(c),
	})
}

// Public - публичная страница.
func (h *Handler) Public(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "public page"})
}

// Login проверяет учетные данные и открывает сессию.
func (h *Handler) Login(c fiber.Ctx) error {
	ctx := requestContext(c)
	userID := c.FormValue(formUserID)

	ok, err := h.auth.Authenticate(ctx, userID, c.FormValue(formPassword))
	if err != nil {
		return err
	}
	if !ok {
		return errUnauthorized
	}

	sess, err := h.sessions.Create(ctx, userID)
	if err != nil {
		return err
	}

	expires := sess.ExpiresAt
	if expires.IsZero() {
		expires = time.Now().Add(h.cookie.TTL)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    sess.Token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	logger.Log(ctx).Info(ctx, "user logged in", zap.String("userID", sess.UserID))
	return c.JSON(fiber.Map{"user_id": sess.UserID, "token": sess.Token})
}

// Logout завершает текущую сессию.
func (h *Handler) Logout(c fiber.Ctx) error {
	if token, ok := c.Locals(localToken).(string); ok {
		if err := h.sessions.Destroy(requestContext(c), token); err != nil {
			return err
		}
	}
	c.ClearCookie(h.cookie.Name)
	return c.Redirect().Status(fiber.StatusFound).To("/")
}

// Private возвращает заметки и изображения текущего пользователя.
func (h *Handler) Private(c fiber.Ctx) error {
	ctx := requestContext(c)
	userID := currentUser(c)

	notes, err := h.notes.ListNotes(ctx, userID)
	if err != nil {
		return err
	}
	images, err := h.images.ListImages(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(PrivatePageResponse{
		UserID: userID,
		Notes:  toNoteResponses(notes),
		Images: toImageResponses(images),
	})
}

// WriteNote сохраняет заметку текущего пользователя.
func (h *Handler) WriteNote(c fiber.Ctx) error {
	noteID, err := h.notes.WriteNote(requestContext(c), currentUser(c), c.FormValue(formNote))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"note_id": noteID})
}

// DeleteNote удаляет заметку владельца.
func (h *Handler) DeleteNote(c fiber.Ctx) error {
	if err := h.notes.DeleteNote(requestContext(c), currentUser(c), c.Params("note_id")); err != nil {
		return err
	}
	return c.Redirect().Status(fiber.StatusFound).To("/private/")
}

// UploadImage принимает файл из multipart формы.
func (h *Handler) UploadImage(c fiber.Ctx) error {
	ctx := requestContext(c)

	header, err := c.FormFile(formFile)
	if err != nil {
		logger.Log(ctx).Debug(ctx, "upload without file part", zap.Error(err))
		return services.ErrEmptyUpload
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("opening upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("reading upload: %w", err)
	}

	uid, err := h.images.UploadImage(ctx, currentUser(c), header.Filename, data)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"image_uid": uid})
}

// DeleteImage удаляет изображение владельца.
func (h *Handler) DeleteImage(c fiber.Ctx) error {
	if err := h.images.DeleteImage(requestContext(c), currentUser(c), c.Params("image_uid")); err != nil {
		return err
	}
	return c.Redirect().Status(fiber.StatusFound).To("/private/")
}

// Image отдает файл изображения владельцу.
func (h *Handler) Image(c fiber.Ctx) error {
	image, rc, err := h.images.OpenImage(requestContext(c), currentUser(c), c.Params("image_uid"))
	if err != nil {
		return err
	}
	c.Type(filepath.Ext(image.OriginalFilename))
	return c.SendStream(rc)
}

// Admin возвращает список пользователей.
func (h *Handler) Admin(c fiber.Ctx) error {
	users, err := h.auth.ListUsers(requestContext(c), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(AdminPageResponse{Users: toUserResponses(users)})
}

// AddUser создает пользователя от имени ADMIN.
func (h *Handler) AddUser(c fiber.Ctx) error {
	ctx := requestContext(c)
	userID := c.FormValue(formUserID)

	err := h.auth.CreateUser(ctx, currentUser(c), userID, c.FormValue(formPassword))
	if err != nil {
		if errors.Is(err, services.ErrDuplicateUser) ||
			errors.Is(err, services.ErrInvalidUserID) ||
			errors.Is(err, services.ErrInvalidPassword) {
			return h.adminWithError(c, err)
		}
		return err
	}
	return c.Redirect().Status(fiber.StatusFound).To("/admin/")
}

// adminWithError возвращает панель администратора вместе с ошибкой валидации.
func (h *Handler) adminWithError(c fiber.Ctx, cause error) error {
	users, err := h.auth.ListUsers(requestContext(c), currentUser(c))
	if err != nil {
		return err
	}
	status, message := StatusFor(cause)
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"users": toUserResponses(users),
	})
}

// DeleteUser каскадно удаляет пользователя.
func (h *Handler) DeleteUser(c fiber.Ctx) error {
	if err := h.deleter.DeleteUser(requestContext(c), currentUser(c), c.Params("user_id")); err != nil {
		return err
	}
	return c.Redirect().Status(fiber.StatusFound).To("/admin/")
}
