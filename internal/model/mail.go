package model

// MailMessage is the payload carried on the mail outbox queue.
type MailMessage struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}
