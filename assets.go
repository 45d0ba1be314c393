// Package finnabear provides embedded assets for production builds.
package finnabear

import "embed"

// Embedded assets. In dev mode (DEV=true) templates and static files are read
// from disk instead so edits show up without a rebuild.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
