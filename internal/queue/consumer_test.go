package queue

import (
    "encoding/json"
    "log/slog"
    "os"
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestHandleMessageAppendsLine(t *testing.T) {
    dir := t.TempDir()
    c := &AuditConsumer{LogDir: dir, Log: slog.Default()}

    active := false
    body, err := json.Marshal(AccountEvent{
        Type: AccountRoleChanged, AccountID: 5, ActorID: 1, Username: "alice",
        Role: "ADMIN", PrevRole: "RESIDENTE", Active: &active, OccurredAt: "2026-01-02T03:04:05Z",
    })
    require.NoError(t, err)
    require.NoError(t, c.HandleMessage(body))
    require.NoError(t, c.HandleMessage(body))

    data, err := os.ReadFile(filepath.Join(dir, "account_audit.log"))
    require.NoError(t, err)
    want := `[2026-01-02T03:04:05Z] account.role_changed | account_id=5 | username="alice" | actor_id=1 | rol=ADMIN | rol_anterior=RESIDENTE | activo=false` + "\n"
    assert.Equal(t, want+want, string(data))
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
    c := &AuditConsumer{LogDir: t.TempDir(), Log: slog.Default()}
    assert.Error(t, c.HandleMessage([]byte("{")))
    assert.Error(t, c.HandleMessage([]byte(`{"type":""}`)))
}
