// Package discovery centralizes local service address conventions.
package discovery

import (
	"strconv"
	"strings"
)

const (
	// ServiceAdmin is the admin dashboard service identity.
	ServiceAdmin = "admin"
	// ServiceAPIProbe is the API probe CLI identity; it does not listen.
	ServiceAPIProbe = "apiprobe"
	// ServiceWeb is the public web service identity.
	ServiceWeb = "web"
)

const defaultHost = "localhost"

var httpPorts = map[string]int{
	ServiceWeb:   8086,
	ServiceAdmin: 8082,
}

// DefaultHTTPAddr returns the default local HTTP listen address for a
// service, or "" when the service does not listen.
func DefaultHTTPAddr(service string) string {
	port, ok := httpPorts[strings.TrimSpace(service)]
	if !ok || port <= 0 {
		return ""
	}
	return defaultHost + ":" + strconv.Itoa(port)
}

// OrDefaultHTTPAddr returns value when set, otherwise the service convention.
func OrDefaultHTTPAddr(value, service string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	return DefaultHTTPAddr(service)
}

// DefaultAPIBaseURL is where the web service mounts its API routes.
func DefaultAPIBaseURL() string {
	return "http://" + DefaultHTTPAddr(ServiceWeb) + "/api"
}
