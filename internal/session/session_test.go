package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comigor/advisor-go/internal/conversation"
	"github.com/comigor/advisor-go/internal/store"
)

func TestLoad_MissingKeyGivesEmptyLog(t *testing.T) {
	s, err := Load(context.Background(), store.NewMemory(), "")
	require.NoError(t, err)
	require.Equal(t, DefaultKey, s.Key)
	require.Zero(t, s.Log.Len())
	require.Len(t, s.GetShortID(), 8)
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	s := New(st, "chat")
	s.Log.Append(conversation.NewTurn(conversation.RoleUser, "hi"))
	s.Log.Append(conversation.NewTurn(conversation.RoleModel, "Hello!"))
	require.NoError(t, s.Save(ctx))

	raw, found, err := st.Get(ctx, "chat")
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `[{"role":"user","parts":[{"text":"hi"}]},{"role":"model","parts":[{"text":"Hello!"}]}]`, raw)

	loaded, err := Load(ctx, st, "chat")
	require.NoError(t, err)
	require.Equal(t, s.Log.Snapshot(), loaded.Log.Snapshot())
	require.NotEqual(t, s.ID, loaded.ID)
}

func TestLoad_CorruptLog(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.Set(ctx, DefaultKey, "{oops"))

	_, err := Load(ctx, st, DefaultKey)
	require.Error(t, err)
}

func TestReset(t *testing.T) {
	s := New(store.NewMemory(), "")
	s.Log.Append(conversation.NewTurn(conversation.RoleUser, "hi"))
	s.Reset()
	require.Zero(t, s.Log.Len())
}
