package http

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/catalog"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/storefront"
)

//go:embed templates/page.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/page.html"))

type pageData struct {
	Title    string
	Products []catalog.Product
	Session  storefront.Snapshot

	// NotificationDelayMs is how long the page keeps the notification on
	// screen before hiding it, matching the server-side auto-dismiss.
	NotificationDelayMs int64
}

func newPageData(title string, products []catalog.Product, snap storefront.Snapshot, now time.Time) pageData {
	d := pageData{Title: title, Products: products, Session: snap}
	if n := snap.Notification; n != nil {
		if left := n.ExpiresAt.Sub(now); left > 0 {
			d.NotificationDelayMs = left.Milliseconds()
		}
	}
	return d
}

func renderPage(w io.Writer, data pageData) error {
	return pageTemplate.ExecuteTemplate(w, "page.html", data)
}
