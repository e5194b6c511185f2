package normalize

import "github.com/davetashner/phishdedup/internal/incident"

// Text builds the comparison string for an email: subject and body joined by
// a space, with the body derived from the HTML part when it is blank, and
// every URL reduced to scheme and host.
func Text(subject, body, htmlBody incident.TextField) string {
	b := body.String()
	if body.IsBlank() {
		b = HTMLToText(htmlBody.String())
	}
	return CanonicalizeURLs(subject.String() + " " + b)
}
