// Package admin serves the admin dashboard shell: a localized home page, a
// persisted counter, and an upstream API health panel.
package admin
