package report

import (
	"strings"
	"time"
)

// Artifact is one finished export: the binary document plus the suggested
// filename and MIME type. Encoders buffer entirely in memory so a cancelled
// or failed export never leaves a partial file visible to the caller.
type Artifact struct {
	Data        []byte
	Filename    string
	ContentType string
}

// SuggestFilename builds "assessment-<client>-<ISO date>.<ext>". Whitespace
// in the client name becomes hyphens and non-filename characters are
// stripped. A zero submission date falls back to the current date.
func SuggestFilename(clientName string, submittedAt time.Time, ext string) string {
	date := submittedAt
	if date.IsZero() {
		date = time.Now()
	}
	name := sanitizeFilenamePart(clientName)
	if name == "" {
		name = "client"
	}
	return "assessment-" + name + "-" + date.Format("2006-01-02") + "." + ext
}

func sanitizeFilenamePart(s string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
