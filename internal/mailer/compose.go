package mailer

import (
	"net/url"
	"strings"
)

// Message is a plain-text email to a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// ComposeURI builds a mailto: link that opens the user's mail client with
// subject and body prefilled. Spaces are encoded as %20, not "+", since
// mail clients do not decode "+" in mailto query values.
func ComposeURI(to, subject, body string) string {
	return "mailto:" + to + "?subject=" + encode(subject) + "&body=" + encode(body)
}

func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
