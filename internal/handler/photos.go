package handler

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goldylocks/server/internal/auth"
	"github.com/goldylocks/server/internal/model"
	"github.com/goldylocks/server/internal/repository"
	"github.com/goldylocks/server/internal/storage"
)

// maxPhotoSize caps uploads at 5MB.
const maxPhotoSize = 5 * 1024 * 1024

// PhotosController manages the user's photo gallery.
type PhotosController struct {
	Logger auth.Logger
	Repo   repository.Manager
	Store  storage.PhotoStore
}

// Upload accepts a multipart photo. The first upload becomes the main
// photo automatically.
func (p *PhotosController) Upload(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromFiber(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := claims.UserUUID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file provided"})
	}

	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File must be an image"})
	}

	if file.Size > maxPhotoSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File size must be less than 5MB"})
	}

	src, err := file.Open()
	if err != nil {
		p.Logger.Error("photo open failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload photo"})
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxPhotoSize+1))
	if err != nil || len(data) > maxPhotoSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File size must be less than 5MB"})
	}

	url, err := p.Store.Store(id.String(), filepath.Ext(file.Filename), data)
	if err != nil {
		p.Logger.Error("photo store failed", "user_id", id.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload photo"})
	}

	photo := &model.Photo{
		UserID:  id,
		URL:     url,
		Caption: strings.TrimSpace(c.FormValue("caption")),
		IsMain:  c.FormValue("isMain") == "true",
	}

	photo, err = p.Repo.Photos().Add(c.Context(), photo)
	if err != nil {
		p.Logger.Error("photo create failed", "user_id", id.String(), "error", err)
		// The blob is orphaned otherwise.
		if derr := p.Store.Delete(url); derr != nil {
			p.Logger.Warn("orphaned photo cleanup failed", "url", url, "error", derr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload photo"})
	}

	return c.JSON(fiber.Map{"photo": photo})
}

// PhotoUpdateRequest edits caption or main status.
type PhotoUpdateRequest struct {
	PhotoID string `json:"photoId"`
	Caption string `json:"caption"`
	IsMain  bool   `json:"isMain"`
}

func (p *PhotosController) Update(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromFiber(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	payload := new(PhotoUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payload"})
	}

	photoID, err := uuid.Parse(payload.PhotoID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo ID required"})
	}

	photo, err := p.Repo.Photos().GetOwned(c.Context(), photoID, userID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
		}
		p.Logger.Error("photo fetch failed", "photo_id", payload.PhotoID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update photo"})
	}

	photo.Caption = strings.TrimSpace(payload.Caption)
	photo.IsMain = payload.IsMain

	photo, err = p.Repo.Photos().SetCaptionAndMain(c.Context(), photo)
	if err != nil {
		p.Logger.Error("photo update failed", "photo_id", payload.PhotoID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update photo"})
	}

	return c.JSON(fiber.Map{"photo": photo})
}

// Delete removes a photo. The disk blob goes best effort, the database
// row is authoritative.
func (p *PhotosController) Delete(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromFiber(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	photoID, err := uuid.Parse(c.Query("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo ID required"})
	}

	photo, err := p.Repo.Photos().GetOwned(c.Context(), photoID, userID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
		}
		p.Logger.Error("photo fetch failed", "photo_id", photoID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete photo"})
	}

	if err := p.Repo.Photos().Remove(c.Context(), photo); err != nil {
		p.Logger.Error("photo delete failed", "photo_id", photoID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete photo"})
	}

	if err := p.Store.Delete(photo.URL); err != nil {
		p.Logger.Warn("photo blob delete failed", "url", photo.URL, "error", err)
	}

	return c.JSON(fiber.Map{"success": true})
}
