package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
)

const resendEmailsURL = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// EmailNotifier forwards contact messages to the site owner's inbox via Resend.
type EmailNotifier struct {
	apiKey    string
	fromEmail string
	inbox     string
	endpoint  string
	client    *http.Client
}

func NewEmailNotifier(apiKey, fromEmail, inbox string) *EmailNotifier {
	return &EmailNotifier{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		inbox:     inbox,
		endpoint:  resendEmailsURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *EmailNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	subject := fmt.Sprintf("Portfolio contact: %s", msg.Subject)
	body := fmt.Sprintf(
		"<p><strong>From:</strong> %s &lt;%s&gt;</p><p><strong>Subject:</strong> %s</p><p>%s</p>",
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(msg.Subject),
		html.EscapeString(msg.Message),
	)
	return n.SendEmail(ctx, subject, body, []string{n.inbox}, msg.Email)
}

// SendEmail sends an HTML email. replyTo may be empty.
func (n *EmailNotifier) SendEmail(ctx context.Context, subject, body string, recipients []string, replyTo string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if n.apiKey == "" {
		return errs.NewServiceConfigError("resend", "RESEND_API_KEY")
	}
	if n.fromEmail == "" {
		return errs.NewServiceConfigError("resend", "RESEND_FROM_EMAIL")
	}

	payload := ResendEmailRequest{
		From:    n.fromEmail,
		To:      recipients,
		Subject: subject,
		Html:    body,
		ReplyTo: replyTo,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return errs.NewServiceError("resend", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return errs.NewServiceError("resend", fmt.Errorf("status %d: %s", resp.StatusCode, errorResp.Message))
		}
		return errs.NewServiceError("resend", fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}
