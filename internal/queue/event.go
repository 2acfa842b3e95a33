// Package queue defines message payloads exchanged over the message broker.
package queue

// Account event types published after a lifecycle change commits.
const (
    AccountCreated         = "account.created"
    AccountUpdated         = "account.updated"
    AccountRoleChanged     = "account.role_changed"
    AccountPasswordChanged = "account.password_changed"
    AccountDeleted         = "account.deleted"
    SessionRevoked         = "session.revoked"
)

// AccountEvent is published whenever an account changes.  It carries
// enough for an audit trail without querying the primary database; it never
// carries credentials or tokens.
type AccountEvent struct {
    Type       string `json:"type"`
    AccountID  uint64 `json:"account_id"`
    ActorID    uint64 `json:"actor_id,omitempty"`
    Username   string `json:"username"`
    Role       string `json:"rol,omitempty"`
    PrevRole   string `json:"rol_anterior,omitempty"`
    Active     *bool  `json:"activo,omitempty"`
    OccurredAt string `json:"occurred_at"`
}
