package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either set Template with Data, or Subject with Text/HTML for raw sends.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "verify_otp"
	Data     map[string]any `json:"data,omitempty"`
}
