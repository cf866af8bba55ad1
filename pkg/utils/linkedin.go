package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	linkedInJobViewPath = regexp.MustCompile(`^/jobs/view/(\d+)/?$`)
	numericID           = regexp.MustCompile(`^\d+$`)
)

// LinkedInURLType represents the type of LinkedIn URL
type LinkedInURLType int

const (
	LinkedInURLTypeUnknown       LinkedInURLType = iota
	LinkedInURLTypeJobView                       // /jobs/view/123
	LinkedInURLTypeJobCollection                 // /jobs/collections/recommended/?currentJobId=123
	LinkedInURLTypeNonJob                        // profiles, company pages, feed
)

// IsLinkedInURL checks if a URL points at LinkedIn
func IsLinkedInURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com")
}

// ParseLinkedInURL classifies a LinkedIn URL and returns the job ID when there is one
func ParseLinkedInURL(rawURL string) (LinkedInURLType, string, error) {
	if !IsLinkedInURL(rawURL) {
		return LinkedInURLTypeUnknown, "", fmt.Errorf("not a LinkedIn URL: %s", rawURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return LinkedInURLTypeUnknown, "", fmt.Errorf("invalid URL: %w", err)
	}

	path := strings.ToLower(u.Path)
	if m := linkedInJobViewPath.FindStringSubmatch(path); len(m) > 1 {
		return LinkedInURLTypeJobView, m[1], nil
	}

	// Collection and search pages show one job in a side panel
	if strings.HasPrefix(path, "/jobs/collections/") || strings.HasPrefix(path, "/jobs/search") {
		if id := u.Query().Get("currentJobId"); numericID.MatchString(id) {
			return LinkedInURLTypeJobCollection, id, nil
		}
	}

	return LinkedInURLTypeNonJob, "", nil
}

// CanonicalJobURL rewrites LinkedIn side-panel URLs to the public job view so
// that the page actually renders the posting. Other URLs are returned as-is.
func CanonicalJobURL(rawURL string) string {
	if !IsLinkedInURL(rawURL) {
		return rawURL
	}
	kind, id, err := ParseLinkedInURL(rawURL)
	if err != nil {
		return rawURL
	}
	switch kind {
	case LinkedInURLTypeJobView, LinkedInURLTypeJobCollection:
		return fmt.Sprintf("https://www.linkedin.com/jobs/view/%s", id)
	default:
		return rawURL
	}
}
