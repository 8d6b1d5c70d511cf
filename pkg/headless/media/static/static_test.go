package static_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-headless/pkg/headless/media/static"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		wantErr bool
	}{
		{"valid", "https://example.com/uploads", false},
		{"empty", "", true},
		{"relative", "/uploads", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := static.New(tt.base)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolver_URL(t *testing.T) {
	resolver, err := static.New("https://example.com/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	u, err := resolver.URL(ctx, "2024/01/cat.png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/uploads/2024/01/cat.png", u)

	u, err = resolver.URL(ctx, "/a b.png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/uploads/a%20b.png", u)

	_, err = resolver.URL(ctx, "")
	assert.Error(t, err)
}
