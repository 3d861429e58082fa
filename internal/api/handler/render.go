package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/internal/api/middleware"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/service"
	"github.com/brandon3sican/to-system/internal/web"
)

const msgSomethingWrong = "Something went wrong. Please try again."

// renderPage executes an HTML template with the session user and pending flash
func renderPage(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flash"] = web.PopFlash(c)
	if v, ok := c.Get(middleware.ContextUser); ok {
		if u, ok := v.(*model.User); ok && u != nil {
			data["User"] = u
		}
	}
	c.HTML(status, name, data)
}

func redirectWithFlash(c *gin.Context, to string, f web.Flash) {
	web.SetFlash(c, f)
	c.Redirect(http.StatusFound, to)
}

func redirectSuccess(c *gin.Context, to, message string) {
	redirectWithFlash(c, to, web.Flash{Success: message})
}

func redirectError(c *gin.Context, to, message string) {
	redirectWithFlash(c, to, web.Flash{Error: message})
}

// failForm sends the user back to the form. Validation failures carry their
// field messages; anything else is logged and shown as a generic failure.
// secrets names fields never echoed back.
func failForm(c *gin.Context, err error, back string, secrets ...string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		redirectWithFlash(c, back, web.Flash{Errors: verr.Fields, Old: web.OldInput(c, secrets...)})
		return
	}
	_ = c.Error(err)
	redirectWithFlash(c, back, web.Flash{Error: msgSomethingWrong, Old: web.OldInput(c, secrets...)})
}

func notFoundPage(c *gin.Context, message string) {
	renderPage(c, http.StatusNotFound, "error.html", gin.H{"Title": "Not found", "Message": message})
}

func errorPage(c *gin.Context, err error) {
	_ = c.Error(err)
	renderPage(c, http.StatusInternalServerError, "error.html", gin.H{"Title": "Error", "Message": msgSomethingWrong})
}

// ── reference catalogs ──

func renderCatalog(c *gin.Context, page web.CatalogPage) {
	renderPage(c, http.StatusOK, "catalog_index.html", gin.H{"Title": page.Title, "Page": page})
}

func renderCatalogEdit(c *gin.Context, page web.CatalogEdit) {
	renderPage(c, http.StatusOK, "catalog_edit.html", gin.H{"Title": page.Title, "Page": page})
}

func bindPage(c *gin.Context, req interface{}) {
	// a malformed page number falls back to page 1
	_ = c.ShouldBindQuery(req)
}

func newPager(c *gin.Context, path string, total int64, page int) web.Pager {
	return web.NewPager(path, c.Request.URL.Query(), total, page)
}
