package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classdesk/core/session"
	"github.com/trezcool/classdesk/core/user"
)

var sess = session.Session{
	User:  user.User{ID: "u1", Name: "Ada", Email: "ada@test.cd", Role: user.RoleTeacher},
	Token: "tok-1",
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	st := NewStore(dir, "user")

	_, err := st.Load(ctx)
	assert.Equal(t, session.ErrNoSession, err, "nothing saved yet")

	require.NoError(t, st.Save(ctx, sess))
	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, *got)

	info, err := os.Stat(filepath.Join(dir, "user.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, st.Clear(ctx))
	_, err = st.Load(ctx)
	assert.Equal(t, session.ErrNoSession, err)
	require.NoError(t, st.Clear(ctx), "clearing twice is fine")
}

func TestStore_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, NewStore(dir, "user").Save(ctx, sess))
	got, err := NewStore(dir, "user").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, *got)
}

func TestStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{{{"},
		{name: "empty object", content: "{}"},
		{name: "missing token", content: `{"user":{"id":"u1","role":"student"}}`},
		{name: "unknown role", content: `{"user":{"id":"u1","role":"admin"},"token":"t"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), []byte(tt.content), 0o600))

			_, err := NewStore(dir, "user").Load(context.Background())
			assert.Equal(t, session.ErrNoSession, err)
		})
	}
}

func TestStore_LoadAcceptsDocumentID(t *testing.T) {
	dir := t.TempDir()
	content := `{"user":{"_id":"abc","name":"Bob","email":"bob@test.cd","role":"student"},"token":"t"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), []byte(content), 0o600))

	got, err := NewStore(dir, "user").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", got.User.ID)
}
