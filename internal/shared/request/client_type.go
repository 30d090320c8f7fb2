package request

import "strings"

const (
	ClientTypeWeb    = "WEB"
	ClientTypeMobile = "MOBILE"
	ClientTypeAPI    = "API"
)

// ResolveClientType prefers the explicit X-Client-Type header and falls
// back to a User-Agent sniff. Browsers get cookie-based tokens, everyone
// else gets tokens in the response body.
func ResolveClientType(header, userAgent string) string {
	switch strings.ToUpper(strings.TrimSpace(header)) {
	case ClientTypeWeb:
		return ClientTypeWeb
	case ClientTypeMobile:
		return ClientTypeMobile
	case ClientTypeAPI:
		return ClientTypeAPI
	}

	ua := strings.ToLower(userAgent)
	for _, marker := range []string{"mozilla", "chrome", "safari", "firefox", "edge"} {
		if strings.Contains(ua, marker) {
			return ClientTypeWeb
		}
	}

	return ClientTypeAPI
}

func IsWebClient(clientType string) bool {
	return clientType == ClientTypeWeb
}
