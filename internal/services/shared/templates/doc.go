// Package templates provides the page chrome shared by the web and admin
// services: layout, navigation, locale switcher, footer and buttons.
//
// Components are plain templ.Components so services can compose them with
// their own page bodies.
package templates
