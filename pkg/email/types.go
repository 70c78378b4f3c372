package email

// Message is one outgoing mail. At least one body is required; when both are
// set the HTML part is attached as the multipart alternative.
type Message struct {
	To      []string
	CC      []string
	BCC     []string
	Subject string

	TextBody string
	HTMLBody string
}
