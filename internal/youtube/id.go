package youtube

import (
	"regexp"

	"mindlink/internal/domain"
)

// The four accepted URL shapes. Anything else is a validation failure,
// handled by the caller, never an error here.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?(?:[^#]*&)?v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]{11})`),
}

// ExtractVideoID pulls the 11-character video identifier out of a URL.
// Pure function, no I/O.
func ExtractVideoID(raw string) (domain.VideoID, bool) {
	for _, p := range idPatterns {
		if m := p.FindStringSubmatch(raw); m != nil {
			return domain.VideoID(m[1]), true
		}
	}
	return "", false
}
