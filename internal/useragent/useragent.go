// Package useragent classifies User-Agent strings for click analytics.
package useragent

import (
	"strings"

	ua "github.com/mssola/useragent"
)

// Info is the analytics view of a User-Agent string
type Info struct {
	Browser    string
	OS         string
	DeviceType string
	IsMobile   bool
	IsBot      bool
}

// Parse classifies a raw User-Agent header. An empty or unrecognized value
// yields "Unknown" fields rather than an error: classification is
// best-effort and never blocks click recording.
func Parse(raw string) Info {
	if strings.TrimSpace(raw) == "" {
		return Info{Browser: "Unknown", OS: "Unknown", DeviceType: "Unknown"}
	}

	parsed := ua.New(raw)
	name, version := parsed.Browser()

	info := Info{
		Browser:  strings.TrimSpace(name + " " + version),
		OS:       parsed.OS(),
		IsMobile: parsed.Mobile(),
		IsBot:    parsed.Bot(),
	}
	if info.Browser == "" {
		info.Browser = "Unknown"
	}
	if info.OS == "" {
		info.OS = "Unknown"
	}

	switch {
	case info.IsBot:
		info.DeviceType = "Bot"
	case info.IsMobile:
		info.DeviceType = "Mobile"
	default:
		info.DeviceType = "Desktop"
	}
	return info
}
