package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
)

func testContactMessage() models.ContactMessage {
	return models.NewContactMessage("Ada <script>", "ada@example.com", "Work together?", "Let's build something.")
}

func TestEmailNotifier_NotifyContact(t *testing.T) {
	var got ResendEmailRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer server.Close()

	notifier := NewEmailNotifier("re_test", "Site <site@example.com>", "owner@example.com")
	notifier.endpoint = server.URL

	require.NoError(t, notifier.NotifyContact(context.Background(), testContactMessage()))

	assert.Equal(t, "Bearer re_test", gotAuth)
	assert.Equal(t, "Site <site@example.com>", got.From)
	assert.Equal(t, []string{"owner@example.com"}, got.To)
	assert.Equal(t, "ada@example.com", got.ReplyTo)
	assert.Equal(t, "Portfolio contact: Work together?", got.Subject)
	assert.Contains(t, got.Html, "Ada &lt;script&gt;")
	assert.NotContains(t, got.Html, "<script>")
}

func TestEmailNotifier_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	notifier := NewEmailNotifier("re_test", "bad", "owner@example.com")
	notifier.endpoint = server.URL

	err := notifier.NotifyContact(context.Background(), testContactMessage())
	require.Error(t, err)
	assert.True(t, errs.IsUpstream(err))

	var apiErr *errs.ApiErr
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.GetFullError(), "invalid from address")
}

func TestEmailNotifier_MissingConfig(t *testing.T) {
	notifier := NewEmailNotifier("", "site@example.com", "owner@example.com")
	err := notifier.NotifyContact(context.Background(), testContactMessage())
	assert.ErrorIs(t, err, errs.ErrConfigMissing)
}

type fakeMessageCreator struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessageCreator) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestSMSNotifier_NotifyContact(t *testing.T) {
	creator := &fakeMessageCreator{}
	notifier := &SMSNotifier{messages: creator, from: "+15550000001", to: "+15550000002"}

	require.NoError(t, notifier.NotifyContact(context.Background(), testContactMessage()))
	require.NotNil(t, creator.params)
	assert.Equal(t, "+15550000002", *creator.params.To)
	assert.Equal(t, "+15550000001", *creator.params.From)
	assert.Equal(t, "New contact from Ada <script> <ada@example.com>: Work together?", *creator.params.Body)

	creator.err = errors.New("invalid number")
	err := notifier.NotifyContact(context.Background(), testContactMessage())
	assert.True(t, errs.IsUpstream(err))
}

func TestSMSBodyIsTruncated(t *testing.T) {
	msg := models.NewContactMessage("Ada", "ada@example.com", strings.Repeat("x", 500), "body")
	body := smsBody(msg)
	assert.Len(t, []rune(body), maxSMSBody)
	assert.True(t, strings.HasSuffix(body, "..."))
}

type recordingNotifier struct {
	calls int
	err   error
}

func (r *recordingNotifier) NotifyContact(context.Context, models.ContactMessage) error {
	r.calls++
	return r.err
}

func TestNotifiers_JoinsErrors(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("smtp down")}
	ok := &recordingNotifier{}

	err := Notifiers{failing, ok}.NotifyContact(context.Background(), testContactMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls, "a failing notifier must not stop the others")

	assert.NoError(t, Notifiers{ok}.NotifyContact(context.Background(), testContactMessage()))
}

func TestNewContactNotifier(t *testing.T) {
	assert.Nil(t, NewContactNotifier(config.NotifyConfig{}))
	assert.Nil(t, NewContactNotifier(config.NotifyConfig{ResendAPIKey: "re_test"}), "partially configured channels are skipped")

	notifier := NewContactNotifier(config.NotifyConfig{
		ResendAPIKey:     "re_test",
		ResendFromEmail:  "site@example.com",
		ContactInbox:     "owner@example.com",
		TwilioAccountSID: "AC123",
		TwilioAuthToken:  "token",
		TwilioFromNumber: "+15550000001",
		TwilioToNumber:   "+15550000002",
	})
	require.IsType(t, Notifiers{}, notifier)
	assert.Len(t, notifier.(Notifiers), 2)
}
