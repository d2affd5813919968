// Package probe implements the transports extguard uses to test whether a
// single extension resource is reachable. A prober answers one question
// per call: did this resource URL resolve, yes or no.
package probe

import (
	"context"
	"fmt"
	"strings"
)

// Scheme is the URL scheme used to address extension resources.
type Scheme string

const (
	// SchemeChrome addresses extensions in Chromium-based browsers.
	SchemeChrome Scheme = "chrome-extension"

	// SchemeFirefox addresses extensions in Firefox.
	SchemeFirefox Scheme = "moz-extension"
)

// ResourceURL builds the probe URL for an extension resource in the form
// <scheme>://<id>/<path>. A leading slash on path is not doubled.
func ResourceURL(scheme Scheme, id, path string) string {
	return fmt.Sprintf("%s://%s/%s", scheme, id, strings.TrimPrefix(path, "/"))
}

// Prober tests whether a single extension resource is reachable.
//
// Probe reports (true, nil) only when the resource was positively
// fetched. Every failure mode looks the same to callers: a false result
// or an error both mean "not installed". Probers never retry.
type Prober interface {
	// Available reports whether the prober currently has a context to
	// probe from. When it is false callers skip probing entirely.
	Available() bool

	// Probe fetches the resource URL and reports whether it resolved.
	Probe(ctx context.Context, resourceURL string) (bool, error)
}
