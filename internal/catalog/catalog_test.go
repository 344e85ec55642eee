package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ariefcatur/go-ticket-store.git/internal/orders"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New([]orders.Product{{Key: "", Name: "x", PriceCents: 1}})
	require.Error(t, err)

	_, err = New([]orders.Product{{Key: "a", Name: "x", PriceCents: 0}})
	require.Error(t, err)

	_, err = New([]orders.Product{
		{Key: "a", Name: "x", PriceCents: 1},
		{Key: "a", Name: "y", PriceCents: 2},
	})
	require.Error(t, err)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	body := `[
		{"key": "netflix-1m", "name": "Netflix 1 Month", "price_cents": 100000, "description": "Private profile"},
		{"key": "spotify-1m", "name": "Spotify 1 Month", "price_cents": 55000}
	]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := FromFile(path)
	require.NoError(t, err)

	p, ok := c.Get("netflix-1m")
	require.True(t, ok)
	require.Equal(t, "Netflix 1 Month", p.Name)
	require.Equal(t, 100000, p.PriceCents)

	_, ok = c.Get("nope")
	require.False(t, ok)

	list := c.List()
	require.Len(t, list, 2)
	require.Equal(t, "netflix-1m", list[0].Key) // sorted by key
	require.Equal(t, "spotify-1m", list[1].Key)
}

func TestFromFileErrors(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = FromFile(path)
	require.Error(t, err)
}
