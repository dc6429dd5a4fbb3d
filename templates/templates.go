// Package templates holds the embedded HTML pages.
package templates

import (
	"embed"
	"html/template"
	"time"
)

//go:embed *.html
var files embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("Mon Jan 2 2006, 3:04 PM")
	},
	"hasTag": func(checked map[uint]bool, id uint) bool {
		return checked[id]
	},
}

// Load parses every page. Pages are addressed by file name, e.g.
// "user_list.html".
func Load() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "*.html")
}
