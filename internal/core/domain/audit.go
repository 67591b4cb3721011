package domain

import "time"

// AuditAction names an account lifecycle or authentication event.
type AuditAction string

const (
	AuditPrincipalCreated AuditAction = "principal.created"
	AuditPrincipalUpdated AuditAction = "principal.updated"
	AuditPrincipalDeleted AuditAction = "principal.deleted"
	AuditLoginSucceeded   AuditAction = "login.succeeded"
	AuditLoginFailed      AuditAction = "login.failed"
)

// AuditEvent is an append-only record of something that happened to a
// principal. ActorID/ActorRole are zero for unauthenticated requests.
type AuditEvent struct {
	Action     AuditAction
	Kind       Kind
	SubjectID  uint
	Username   string
	ActorID    uint
	ActorRole  Role
	Detail     string
	OccurredAt time.Time
}
