package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds the proxy selector for an HTTP transport.
// Explicit proxy URLs take precedence over the environment; hosts
// matching a noProxy entry bypass the proxy entirely. With no explicit
// configuration the standard environment variables apply.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := splitHostList(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if hostMatches(req.URL.Hostname(), bypass) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func splitHostList(list string) []string {
	var hosts []string
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(entry), "."))
		if entry != "" {
			hosts = append(hosts, strings.ToLower(entry))
		}
	}
	return hosts
}

// hostMatches reports whether host equals an entry or is a subdomain
// of one
func hostMatches(host string, entries []string) bool {
	host = strings.ToLower(host)
	for _, entry := range entries {
		if host == entry || strings.HasSuffix(host, "."+entry) {
			return true
		}
	}
	return false
}
