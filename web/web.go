// Package web serves the embedded demo client page.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFS embed.FS

// Register mounts the demo page at / and its assets under /static.
func Register(engine *gin.Engine) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The static directory is compiled into the binary; failure
		// here means a broken build, not a runtime condition.
		panic(err)
	}

	engine.GET("/", func(c *gin.Context) {
		// Serving "/" makes http.FileServer pick up index.html without
		// tripping its /index.html redirect.
		c.FileFromFS("/", http.FS(sub))
	})
	engine.StaticFS("/static", http.FS(sub))
}
