// Package web holds the embedded template set. Markup is deliberately
// minimal; pages carry no styling of their own.
package web

import "embed"

//go:embed templates/*.tmpl
var Templates embed.FS
