package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterService_GetReturnsDefault(t *testing.T) {
	e := setupReady(t)

	v, err := e.paramSvc.Get(t.Context(), "missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)
}

func TestParameterService_SetCreatesThenUpdatesValueOnly(t *testing.T) {
	ctx := t.Context()
	e := setupReady(t)

	p, err := e.paramSvc.Set(ctx, "CompanyName", "Acme", WithComments("shown in the title bar"))
	require.NoError(t, err)
	assert.True(t, p.UserModifiable)
	assert.Equal(t, "shown in the title bar", p.Comments)

	p, err = e.paramSvc.Set(ctx, "CompanyName", "Acme Ltd", WithComments("ignored"), WithUserModifiable(false))
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", p.Value)

	stored, err := e.params.Find(ctx, "CompanyName")
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", stored.Value)
	assert.Equal(t, "shown in the title bar", stored.Comments)
	assert.True(t, stored.UserModifiable)

	v, err := e.paramSvc.Get(ctx, "CompanyName", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", v)
}

func TestParameterService_NamesAreExact(t *testing.T) {
	ctx := t.Context()
	e := setupReady(t)
	_, err := e.paramSvc.Set(ctx, "Theme", "dark")
	require.NoError(t, err)

	v, err := e.paramSvc.Get(ctx, "Theme ", "none")
	require.NoError(t, err)
	assert.Equal(t, "none", v)
}

func TestParameterService_ListOrderedByName(t *testing.T) {
	ctx := t.Context()
	e := setupReady(t)
	for _, name := range []string{"b", "c", "a"} {
		_, err := e.paramSvc.Set(ctx, name, name+"-value", WithUserModifiable(false))
		require.NoError(t, err)
	}

	params, err := e.paramSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, params, 3)
	assert.Equal(t, "a", params[0].Name)
	assert.Equal(t, "c", params[2].Name)
	assert.False(t, params[1].UserModifiable)
}
