package handler

import (
	"github.com/gofiber/fiber/v2"

	"signage/internal/service"
)

// ListURLs returns the display URLs in insertion order.
//
// @Summary List display URLs
// @Tags urls
// @Produce json
// @Success 200 {array} string
// @Router /urls [get]
func ListURLs(svc service.PlaylistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		urls, err := svc.ListURLs(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(urls)
	}
}

// AddURL appends the form field "url".
//
// @Summary Add display URL
// @Tags urls
// @Accept x-www-form-urlencoded
// @Param url formData string true "display URL"
// @Success 303
// @Failure 400 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /add_url [post]
func AddURL(svc service.PlaylistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.AddURL(c.UserContext(), c.FormValue("url")); err != nil {
			return writeServiceError(c, err)
		}
		return redirectAdmin(c)
	}
}

// DeleteURL removes every entry equal to the form field "url".
//
// @Summary Delete display URL
// @Tags urls
// @Accept x-www-form-urlencoded
// @Param url formData string true "display URL"
// @Success 303
// @Failure 400 {object} errorPayload
// @Router /delete_url [post]
func DeleteURL(svc service.PlaylistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteURL(c.UserContext(), c.FormValue("url")); err != nil {
			return writeServiceError(c, err)
		}
		return redirectAdmin(c)
	}
}
