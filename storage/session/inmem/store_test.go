package inmemstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classdesk/core/session"
	"github.com/trezcool/classdesk/core/user"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	st := NewStore()
	sess := session.Session{User: user.User{ID: "u1", Role: user.RoleStudent}, Token: "tok"}

	_, err := st.Load(ctx)
	assert.Equal(t, session.ErrNoSession, err)

	require.NoError(t, st.Save(ctx, sess))
	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, *got)

	got.Token = "changed"
	again, _ := st.Load(ctx)
	assert.Equal(t, "tok", again.Token, "callers get a copy")

	require.NoError(t, st.Clear(ctx))
	_, err = st.Load(ctx)
	assert.Equal(t, session.ErrNoSession, err)
}
