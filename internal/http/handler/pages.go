package handler

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/url"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"

	"signage/internal/model"
	"signage/internal/service"
)

var (
	//go:embed web/admin.html
	adminHTML string
	//go:embed web/slideshow.html
	slideshowHTML []byte

	adminTmpl = template.Must(template.New("admin").
			Funcs(template.FuncMap{"pathEscape": url.PathEscape}).
			Parse(adminHTML))
)

type adminView struct {
	URLs      []string
	Files     []model.MediaObject
	MaxUpload string
}

// AdminPage renders the management page: URLs in file order, media by name.
func AdminPage(svc service.PlaylistService, maxUploadBytes int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, err := svc.ListMedia(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		urls, err := svc.ListURLs(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}

		var buf bytes.Buffer
		if err := adminTmpl.Execute(&buf, adminView{
			URLs:      urls,
			Files:     files,
			MaxUpload: humanize.IBytes(uint64(maxUploadBytes)),
		}); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Type("html").Send(buf.Bytes())
	}
}

// Slideshow serves the playback client page.
func Slideshow(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if path != "" {
			return c.SendFile(path)
		}
		return c.Type("html").Send(slideshowHTML)
	}
}
