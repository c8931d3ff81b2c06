// Package web serves the public marketing site: the localized home page,
// the monitoring probe page and its test API route.
package web
