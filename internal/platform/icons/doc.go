// Package icons names the icons used by the UI and maps each one to its
// Lucide symbol.
//
// Pages reference icons through a single SVG sprite served at SpritePath, so
// each icon renders as a small <svg><use></svg> fragment.
package icons
