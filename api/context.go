package api

import (
	"context"
)

type keyType string

const (
	adminSubjectKey keyType = "adminSubject"
)

// ctxWithAdminSubject records the subject of a verified admin token
func ctxWithAdminSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, adminSubjectKey, subject)
}

// ctxGetAdminSubject returns the admin subject, or "" for anonymous requests
func ctxGetAdminSubject(ctx context.Context) string {
	subject, _ := ctx.Value(adminSubjectKey).(string)
	return subject
}
