package handler

import (
	"net/url"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"signage/internal/service"
)

// ListPlaybackFiles returns playable media names, oldest first.
//
// @Summary List playback media
// @Tags media
// @Produce json
// @Success 200 {array} string
// @Router /files [get]
func ListPlaybackFiles(svc service.PlaylistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		objs, err := svc.ListPlaybackMedia(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		names := make([]string, 0, len(objs))
		for _, o := range objs {
			names = append(names, o.Name)
		}
		return c.JSON(names)
	}
}

// UploadMedia stores the multipart field "file" under its own filename.
//
// @Summary Upload media
// @Tags media
// @Accept multipart/form-data
// @Param file formData file true "media file"
// @Success 303
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /upload [post]
func UploadMedia(svc service.PlaylistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		if fh.Filename == "" {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "no selected file")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		if _, err := svc.UploadMedia(c.UserContext(), fh.Filename, f, fh.Size); err != nil {
			return writeServiceError(c, err)
		}
		return redirectAdmin(c)
	}
}

// DeleteMedia removes the object named by the form field "filename".
//
// @Summary Delete media
// @Tags media
// @Accept x-www-form-urlencoded
// @Param filename formData string true "object name"
// @Success 303
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /delete_file [post]
func DeleteMedia(svc service.PlaylistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteMedia(c.UserContext(), c.FormValue("filename")); err != nil {
			return writeServiceError(c, err)
		}
		return redirectAdmin(c)
	}
}

// ServeMedia streams a stored object.
func ServeMedia(svc service.PlaylistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("*"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", "invalid media path")
		}
		rc, obj, err := svc.OpenMedia(c.UserContext(), name)
		if err != nil {
			return writeServiceError(c, err)
		}
		if obj.ContentType != "" {
			c.Set(fiber.HeaderContentType, obj.ContentType)
		} else {
			c.Type(filepath.Ext(obj.Name))
		}
		// fasthttp closes the stream once the body is written.
		return c.SendStream(rc, int(obj.Size))
	}
}
