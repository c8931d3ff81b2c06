// Package branding holds product-wide display constants.
package branding

// AppName is the product name shown in page titles and the footer.
const AppName = "Launchpad"
