package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/models"
)

// ContactNotifier tells the site owner about a stored contact message.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, msg models.ContactMessage) error
}

// Notifiers fans a message out to every notifier and joins their errors. One
// failing notifier does not stop the others.
type Notifiers []ContactNotifier

func (ns Notifiers) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	var errList []error
	for i, n := range ns {
		if err := n.NotifyContact(ctx, msg); err != nil {
			errList = append(errList, fmt.Errorf("notifier %d: %w", i, err))
		}
	}
	return errors.Join(errList...)
}

// NewContactNotifier builds a notifier for every channel that is fully
// configured. It returns nil when none is.
func NewContactNotifier(cfg config.NotifyConfig) ContactNotifier {
	var notifiers Notifiers

	if cfg.ResendAPIKey != "" && cfg.ResendFromEmail != "" && cfg.ContactInbox != "" {
		notifiers = append(notifiers, NewEmailNotifier(cfg.ResendAPIKey, cfg.ResendFromEmail, cfg.ContactInbox))
		log.Info().Str("inbox", cfg.ContactInbox).Msg("Contact email notifications enabled")
	}

	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" && cfg.TwilioToNumber != "" {
		notifiers = append(notifiers, NewSMSNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.TwilioToNumber))
		log.Info().Msg("Contact SMS notifications enabled")
	}

	if len(notifiers) == 0 {
		return nil
	}
	return notifiers
}
