package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"hragent/hiring-pipeline/internal/config"
)

// WhatsAppSender delivers one WhatsApp message. The recipient must already
// be in "whatsapp:+<E.164>" form.
type WhatsAppSender interface {
	Send(to, body string) error
}

type twilioWhatsApp struct {
	client     *twilio.RestClient
	fromNumber string
	enabled    bool
}

func NewTwilioWhatsApp(cfg config.TwilioConfig) WhatsAppSender {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.WhatsAppNumber == "" {
		log.Println("⚠️  Twilio settings are not fully configured. WhatsApp notifications will be disabled.")
		return &twilioWhatsApp{enabled: false}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &twilioWhatsApp{
		client:     client,
		fromNumber: cfg.WhatsAppNumber,
		enabled:    true,
	}
}

func (w *twilioWhatsApp) Send(to, body string) error {
	if !strings.HasPrefix(to, "whatsapp:+") {
		return fmt.Errorf("recipient is not in 'whatsapp:+<E.164>' format: %s", to)
	}
	if !w.enabled {
		log.Printf("📭 WhatsApp notifications disabled. Suppressing message to %s.\n", to)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(w.fromNumber)
	params.SetTo(to)
	params.SetBody(body)

	msg, err := w.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send WhatsApp message to %s: %w", to, err)
	}

	if msg.Sid != nil {
		log.Printf("💬 WhatsApp message sent to %s: SID=%s\n", to, *msg.Sid)
	}
	return nil
}

// FormatWhatsAppNumber normalizes a free-form phone string into the
// messaging address Twilio expects. Numbers shorter than ten digits are
// unusable and yield "".
func FormatWhatsAppNumber(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 10 {
		return ""
	}
	return "whatsapp:+91" + d[len(d)-10:]
}
