package source

import (
	"net/url"
	"strings"

	"github.com/downvot/downvot/internal/config"
)

// Provider tags returned by Detect.
const YouTube = "YouTube"

var youtubeHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
}

// Detect classifies a raw URL into a known provider and canonicalizes it so
// downstream caching by URL is meaningful. Unrecognized input comes back as
// ("", rawURL) rather than an error; the caller owns the messaging.
func Detect(rawURL string) (string, string) {
	if len(rawURL) > config.MaxURLLength {
		return "", rawURL
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", rawURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", rawURL
	}

	host := strings.ToLower(u.Hostname())
	if !youtubeHosts[host] {
		return "", rawURL
	}

	if id := youtubeVideoID(u); id != "" {
		return YouTube, "https://www.youtube.com/watch?v=" + id
	}
	return "", rawURL
}

func youtubeVideoID(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	path := strings.Trim(u.Path, "/")

	if host == "youtu.be" {
		return firstSegment(path)
	}

	if v := u.Query().Get("v"); v != "" {
		return v
	}

	for _, prefix := range []string{"shorts/", "live/", "embed/", "v/"} {
		if strings.HasPrefix(path, prefix) {
			return firstSegment(strings.TrimPrefix(path, prefix))
		}
	}
	return ""
}

func firstSegment(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}
