// Package source locates the appliance API metadata documents. Each document
// is looked up in an ordered list of local candidates and, failing those, on
// the public documentation repository.
package source

import (
	"net/url"
	"strings"
)

// DefaultRemoteBase hosts the published metadata documents.
const DefaultRemoteBase = "https://raw.githubusercontent.com/geappliances/public-appliance-api-documentation/main"

// DefaultLocalDir is the development checkout of the documentation repository,
// relative to the working directory.
const DefaultLocalDir = "lib/public-appliance-api-documentation"

// Document names one logical metadata document.
type Document struct {
	// Name is the file name used in every local location.
	Name string
	// URL is the remote fallback. Empty means DefaultRemoteBase/Name.
	URL string
}

var (
	// ERDDefinitions describes every register, including the appliance type enum.
	ERDDefinitions = Document{Name: "appliance_api_erd_definitions.json"}
	// ApplianceAPI lists the common and per-feature register requirements.
	ApplianceAPI = Document{Name: "appliance_api.json"}
)

// RemoteURL returns the URL the document is fetched from. A non-empty base
// overrides the document's own URL.
func (d Document) RemoteURL(base string) string {
	if base == "" && d.URL != "" {
		return d.URL
	}
	if base == "" {
		base = DefaultRemoteBase
	}
	u, err := url.JoinPath(base, d.Name)
	if err != nil {
		return strings.TrimSuffix(base, "/") + "/" + d.Name
	}
	return u
}

func (d Document) String() string { return d.Name }
