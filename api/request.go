package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
)

const maxBodyBytes = 1 << 20

// decodeBody reads the request body as a JSON object. A missing, unreadable
// or malformed body, or one that is not an object, yields an empty object.
func decodeBody(r *http.Request) map[string]any {
	body := map[string]any{}
	if r.Body == nil {
		return body
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return body
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil || decoded == nil {
		return body
	}
	return decoded
}

// stringField reads an optional string. A missing key or JSON null is absent.
func stringField(body map[string]any, key string) (value string, present bool, err error) {
	raw, ok := body[key]
	if !ok || raw == nil {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", true, errs.NewWrongTypeError(key, "a string")
	}
	return s, true, nil
}

// requiredString returns the trimmed string at key, or "" when it is missing,
// blank or not a string.
func requiredString(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return strings.TrimSpace(s)
}

func stringSliceField(body map[string]any, key string) (values []string, present bool, err error) {
	raw, ok := body[key]
	if !ok || raw == nil {
		return nil, false, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, true, errs.NewWrongTypeError(key, "an array of strings")
	}

	values = make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, true, errs.NewWrongTypeError(key, "an array of strings")
		}
		values = append(values, s)
	}
	return values, true, nil
}

type contactRequest struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func parseContactRequest(body map[string]any) (contactRequest, error) {
	req := contactRequest{
		Name:    requiredString(body, "name"),
		Email:   requiredString(body, "email"),
		Subject: requiredString(body, "subject"),
		Message: requiredString(body, "message"),
	}

	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		return contactRequest{}, errs.NewMissingFieldsError("name, email, subject, and message are required")
	}
	return req, nil
}

func parseCreateProjectRequest(body map[string]any) (models.Project, error) {
	title := requiredString(body, "title")
	description := requiredString(body, "description")
	if title == "" || description == "" {
		return models.Project{}, errs.NewMissingFieldsError("title and description are required")
	}

	tags, _, err := stringSliceField(body, "tags")
	if err != nil {
		return models.Project{}, err
	}

	image, _, err := stringField(body, "image")
	if err != nil {
		return models.Project{}, err
	}
	githubURL, _, err := stringField(body, "githubUrl")
	if err != nil {
		return models.Project{}, err
	}
	liveURL, _, err := stringField(body, "liveUrl")
	if err != nil {
		return models.Project{}, err
	}

	return models.NewProject(title, description, tags, image, githubURL, liveURL), nil
}

// parseUpdateProjectRequest reads the id and the updatable fields. Any other
// key in the body is ignored.
func parseUpdateProjectRequest(body map[string]any) (string, models.ProjectPatch, error) {
	var patch models.ProjectPatch

	id := requiredString(body, "id")
	if id == "" {
		return "", patch, errs.NewMissingFieldsError("id is required", "id")
	}

	for _, key := range []string{"title", "description"} {
		value, present, err := stringField(body, key)
		if err != nil {
			return "", patch, err
		}
		if !present {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return "", patch, errs.NewInvalidFieldError(key, key+" cannot be empty")
		}
		if key == "title" {
			patch.Title = &value
		} else {
			patch.Description = &value
		}
	}

	tags, present, err := stringSliceField(body, "tags")
	if err != nil {
		return "", patch, err
	}
	if present {
		patch.Tags = &tags
	}

	optional := []struct {
		key    string
		target **string
	}{
		{"image", &patch.Image},
		{"githubUrl", &patch.GithubURL},
		{"liveUrl", &patch.LiveURL},
	}
	for _, field := range optional {
		value, present, err := stringField(body, field.key)
		if err != nil {
			return "", patch, err
		}
		if present {
			v := value
			*field.target = &v
		}
	}

	if patch.IsEmpty() {
		return "", patch, errs.NewEmptyUpdateError()
	}
	return id, patch, nil
}

// scalarString renders a JSON string, number or true as text. false, 0,
// null, objects and arrays render as "".
func scalarString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "true"
		}
	}
	return ""
}

// parseChatRequest returns the trimmed message. Numbers and true are
// accepted as text.
func parseChatRequest(body map[string]any) (string, error) {
	message := strings.TrimSpace(scalarString(body["message"]))
	if message == "" {
		return "", errs.NewMissingFieldsError("message is required", "message")
	}
	return message, nil
}
