package validation

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

// EmailPattern defines the accepted email shape: a local part of letters,
// digits, dots, plus, underscore, or hyphen; a domain; and a letters-only
// top-level label.
var EmailPattern = regexp.MustCompile(`^[A-Za-z0-9.+_-]+@[A-Za-z0-9._-]+\.[A-Za-z]+$`)

// ValidateEmail checks if an email matches the accepted pattern.
func ValidateEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	return EmailPattern.MatchString(email)
}

// ValidateRecordingURL checks a recording URL key. Recording URLs are
// opaque unique identifiers, not necessarily fetchable addresses, so the
// only rules are non-empty and bounded length.
func ValidateRecordingURL(rawURL string) (bool, string) {
	if rawURL == "" {
		return false, "url is required"
	}
	if len(rawURL) > 2048 {
		return false, "url must be at most 2048 characters"
	}
	return true, ""
}

// IsProbeableURL reports whether a recording URL is a real http(s) URL the
// probe job may touch. Opaque keys and bare tokens are skipped silently.
func IsProbeableURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// IsPrivateIP checks if an IP address is in a private/reserved range.
// Used to prevent SSRF when probing recording URLs.
func IsPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}

	if ip.IsLoopback() {
		return true
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	if ip.IsPrivate() {
		return true
	}
	if ip.IsUnspecified() {
		return true
	}

	// Cloud metadata endpoints (AWS/GCP/Azure standard, plus Azure's
	// wire-server address)
	if ip.Equal(net.ParseIP("169.254.169.254")) || ip.Equal(net.ParseIP("168.63.129.16")) {
		return true
	}

	return false
}

// IsPrivateHost checks if a hostname resolves to a private IP address.
// Returns true if the host is private/blocked.
func IsPrivateHost(host string) (bool, error) {
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		// If we can't resolve, be conservative and block
		return true, err
	}

	for _, ip := range ips {
		if IsPrivateIP(ip) {
			return true, nil
		}
	}

	return false, nil
}

// ValidateURLForProbe validates that a URL is safe for a network probe.
// Blocks private IPs, localhost, and cloud metadata endpoints.
func ValidateURLForProbe(rawURL string) (bool, string) {
	if !IsProbeableURL(rawURL) {
		return false, "not an http(s) URL"
	}

	u, _ := url.Parse(rawURL)

	isPrivate, err := IsPrivateHost(u.Host)
	if err != nil {
		return false, "cannot resolve hostname"
	}
	if isPrivate {
		return false, "URL points to a private or reserved IP address"
	}

	return true, ""
}
