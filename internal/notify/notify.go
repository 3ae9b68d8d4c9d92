// Package notify delivers participant-facing email. Delivery is best effort;
// callers log failures and carry on.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
)

// Mailer sends a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// CredentialMessage carries what the registration confirmation email needs.
type CredentialMessage struct {
	Name      string
	EventID   string
	QRCodeURL string
}

var credentialTmpl = template.Must(template.New("credential").Parse(`<html>
<body>
<p>Hi {{.Name}},</p>
<p>Your registration for {{.EventID}} is confirmed. Present the code below at check-in:</p>
<p><img src="{{.QRCodeURL}}" alt="check-in code" width="256" height="256"/></p>
<p>If the image does not load, open <a href="{{.QRCodeURL}}">{{.QRCodeURL}}</a>.</p>
<p>See you there!</p>
</body>
</html>`))

// Subject returns the email subject line for the message.
func (m CredentialMessage) Subject() string {
	return fmt.Sprintf("Your %s check-in code", m.EventID)
}

// HTMLBody renders the confirmation email.
func (m CredentialMessage) HTMLBody() (string, error) {
	var buf bytes.Buffer
	if err := credentialTmpl.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("failed to render credential email: %w", err)
	}
	return buf.String(), nil
}
