package caption

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID parses a canonical 11-character video identifier out of
// user input. Accepted forms:
//   - long-form watch URLs:  https://www.youtube.com/watch?v=<id>
//   - short-link URLs:       https://youtu.be/<id>
//   - embed URLs:            https://www.youtube.com/embed/<id>
//   - a bare identifier:     <id>
func ExtractVideoID(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("empty input")
	}

	if videoIDPattern.MatchString(trimmed) {
		return trimmed, nil
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("unrecognized video URL or ID: %q", input)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		if id := u.Query().Get("v"); videoIDPattern.MatchString(id) {
			return id, nil
		}
		// embed and shorts URLs carry the ID as the last path element
		for _, prefix := range []string{"/embed/", "/shorts/", "/v/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id := strings.TrimPrefix(u.Path, prefix)
				if i := strings.IndexByte(id, '/'); i >= 0 {
					id = id[:i]
				}
				if videoIDPattern.MatchString(id) {
					return id, nil
				}
			}
		}
	case "youtu.be":
		id := strings.TrimPrefix(u.Path, "/")
		if i := strings.IndexByte(id, '/'); i >= 0 {
			id = id[:i]
		}
		if videoIDPattern.MatchString(id) {
			return id, nil
		}
	}

	return "", fmt.Errorf("unrecognized video URL or ID: %q", input)
}
