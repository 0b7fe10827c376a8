package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/services"
)

// memoryStore is an in-process stand-in for the database.
type memoryStore struct {
	mu       sync.Mutex
	contacts []models.ContactMessage
	projects []models.Project
	seq      int
	err      error
	pingErr  error
}

func (s *memoryStore) nextID() string {
	s.seq++
	return fmt.Sprintf("%024x", s.seq)
}

func (s *memoryStore) contactSnapshot() []models.ContactMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ContactMessage(nil), s.contacts...)
}

func (s *memoryStore) projectSnapshot() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Project, len(s.projects))
	for i, p := range s.projects {
		p.Tags = append([]string{}, p.Tags...)
		out[i] = p
	}
	return out
}

type memoryBackend struct {
	store *memoryStore
}

func (b *memoryBackend) ContactMessages() database.ContactMessageRepository {
	return memoryContactRepo{b.store}
}

func (b *memoryBackend) Projects() database.ProjectRepository {
	return memoryProjectRepo{b.store}
}

func (b *memoryBackend) Ping(context.Context) error    { return b.store.pingErr }
func (b *memoryBackend) Migrate(context.Context) error { return nil }
func (b *memoryBackend) Close(context.Context) error   { return nil }

type memoryContactRepo struct{ s *memoryStore }

func (r memoryContactRepo) Add(_ context.Context, msg *models.ContactMessage) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return "", r.s.err
	}
	msg.ID = r.s.nextID()
	r.s.contacts = append(r.s.contacts, *msg)
	return msg.ID, nil
}

type memoryProjectRepo struct{ s *memoryStore }

func (r memoryProjectRepo) FindAll(context.Context) ([]models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := make([]models.Project, 0, len(r.s.projects))
	for i := len(r.s.projects) - 1; i >= 0; i-- {
		out = append(out, r.s.projects[i])
	}
	return out, nil
}

func (r memoryProjectRepo) Add(_ context.Context, project *models.Project) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return "", r.s.err
	}
	project.ID = r.s.nextID()
	r.s.projects = append(r.s.projects, *project)
	return project.ID, nil
}

func (r memoryProjectRepo) Update(_ context.Context, id string, patch models.ProjectPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	if patch.IsEmpty() {
		return errs.NewEmptyUpdateError()
	}
	for i := range r.s.projects {
		if r.s.projects[i].ID == id {
			applyPatch(patch, &r.s.projects[i])
			return nil
		}
	}
	return errs.NewNotFound("Project")
}

// applyPatch mirrors what the repositories do with a patch.
func applyPatch(patch models.ProjectPatch, project *models.Project) {
	if patch.Title != nil {
		project.Title = *patch.Title
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Tags != nil {
		project.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.Image != nil {
		project.Image = *patch.Image
	}
	if patch.GithubURL != nil {
		project.GithubURL = *patch.GithubURL
	}
	if patch.LiveURL != nil {
		project.LiveURL = *patch.LiveURL
	}
}

type channelNotifier chan models.ContactMessage

func (c channelNotifier) NotifyContact(_ context.Context, msg models.ContactMessage) error {
	c <- msg
	return nil
}

type testEnv struct {
	router   http.Handler
	store    *memoryStore
	attempts atomic.Int32
	notified channelNotifier
}

type envOption func(cfg *config.Config, deps *Dependencies)

func withProduction() envOption {
	return func(cfg *config.Config, _ *Dependencies) {
		cfg.App.Environment = "production"
	}
}

func withAdminSecret(secret string) envOption {
	return func(cfg *config.Config, _ *Dependencies) {
		cfg.Auth.AdminJWTSecret = secret
	}
}

func withRateLimit(perMinute int) envOption {
	return func(cfg *config.Config, _ *Dependencies) {
		cfg.Server.RateLimitPerMinute = perMinute
	}
}

func withTrustedProxy() envOption {
	return func(cfg *config.Config, _ *Dependencies) {
		cfg.Server.TrustProxyHeaders = true
	}
}

func withChat(chat ChatReplier) envOption {
	return func(_ *config.Config, deps *Dependencies) {
		deps.Chat = chat
	}
}

const testURI = "mongodb://localhost:27017"

func newTestEnv(t *testing.T, uri string, opts ...envOption) *testEnv {
	t.Helper()

	env := &testEnv{
		store:    &memoryStore{},
		notified: make(channelNotifier, 8),
	}
	connector := func(context.Context, string) (database.Backend, error) {
		env.attempts.Add(1)
		return &memoryBackend{store: env.store}, nil
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:            "8080",
			AcceptedOrigins: []string{"http://localhost:3000"},
		},
		Database: config.DatabaseConfig{Type: config.DatabaseMongo, URI: uri, URIKey: "MONGODB_URI"},
		Chat:     config.ChatConfig{Provider: config.ChatProviderGemini},
		App:      config.AppConfig{Environment: "development", LogLevel: "info"},
	}
	deps := Dependencies{
		Connections: database.NewConnectionCache(uri, "MONGODB_URI", connector),
		Chat:        services.NewChatService(nil, 0),
		Notifier:    env.notified,
	}
	for _, opt := range opts {
		opt(cfg, &deps)
	}

	env.router = newRouter(cfg, deps)
	return env
}

func (e *testEnv) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
