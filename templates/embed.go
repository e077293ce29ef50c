package templates

import "embed"

// PagesFS contains the site's HTML pages. Every file under pages/ defines a
// "content" block rendered inside layout.html.
//
//go:embed layout.html pages/*.html
var PagesFS embed.FS
