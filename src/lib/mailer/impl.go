package mailer

import (
	"encoding/json"
	"fmt"
	"os"

	"jetset/src/config"
	"jetset/src/lib"
	"jetset/src/types"

	"github.com/wneessen/go-mail"
)

// NewMailerMessage hands a message to the outbound mail collaborator,
// fire-and-forget. With a queue configured the message is enqueued (Kafka on
// the local broker, SQS elsewhere, mirroring the rest of the stack's env
// split); without one it is sent directly over SMTP.
func NewMailerMessage(input *lib.SendMailInput) error {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	if emailQueue == "" {
		return sendNow(input)
	}
	emailBody := &types.JSONB{
		"from":      input.From,
		"from-name": input.FromName,
		"to":        input.To,
		"body":      input.Body,
		"html":      input.Html,
		"subject":   input.Subject,
	}
	if config.GetAPIEnv() == string(types.Local) {
		if err := lib.KafkaProduceMessage("emails", emailQueue, emailBody); err != nil {
			return fmt.Errorf("error sending message to queue: %s", err.Error())
		}
		return nil
	}
	body, err := json.Marshal(&emailBody)
	if err != nil {
		return err
	}
	if err := lib.SQSProduceMessage(emailQueue, string(body)); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	return nil
}

func sendNow(input *lib.SendMailInput) error {
	c, err := lib.GetSMTPClient()
	if err != nil {
		return err
	}
	from := input.From
	if from == "" {
		from = os.Getenv("EMAIL_FROM")
	}
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return err
	}
	if err := m.To(input.To); err != nil {
		return err
	}
	m.Subject(input.Subject)
	m.SetBodyString(mail.TypeTextPlain, input.Body)
	if input.Html != "" {
		m.AddAlternativeString(mail.TypeTextHTML, input.Html)
	}
	return c.DialAndSend(m)
}
