// Package ecotrack provides embedded assets for production builds.
package ecotrack

import "embed"

// Embedded assets for production builds.
// In dev mode (IsDev=true), templates are reloaded from disk on each render.

//go:embed all:web/static
var StaticFS embed.FS

//go:embed all:web/templates
var TemplateFS embed.FS
