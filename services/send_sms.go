package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
)

// SMS bodies are cut to one concatenated message's worth of text.
const maxSMSBody = 320

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts the site owner a short summary of each contact message.
type SMSNotifier struct {
	messages messageCreator
	from     string
	to       string
}

func NewSMSNotifier(accountSID, authToken, from, to string) *SMSNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSNotifier{messages: client.Api, from: from, to: to}
}

// The Twilio client has no context support, so ctx is only checked up front.
func (n *SMSNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.from == "" || n.to == "" {
		return errs.NewServiceConfigError("twilio", "TWILIO_FROM_NUMBER/TWILIO_TO_NUMBER")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(smsBody(msg))

	resp, err := n.messages.CreateMessage(params)
	if err != nil {
		return errs.NewServiceError("twilio", err)
	}

	if resp != nil && resp.Sid != nil {
		log.Info().Str("sid", *resp.Sid).Msg("Successfully sent SMS via Twilio")
	}
	return nil
}

func smsBody(msg models.ContactMessage) string {
	body := fmt.Sprintf("New contact from %s <%s>: %s", msg.Name, msg.Email, msg.Subject)
	runes := []rune(body)
	if len(runes) > maxSMSBody {
		return string(runes[:maxSMSBody-3]) + "..."
	}
	return body
}
