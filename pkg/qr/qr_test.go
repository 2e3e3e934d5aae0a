package qr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildText(t *testing.T) {
	assert.Equal(t,
		"/api/v1/customers/c1/cards/k2/stamp",
		BuildText("", "c1", "k2", ActionStamp))

	assert.Equal(t,
		"https://api.forfriends.space/api/v1/customers/c1/cards/k2/redeem",
		BuildText("https://api.forfriends.space", "c1", "k2", ActionRedeem))

	// Trailing slash on the host does not double up.
	assert.Equal(t,
		"https://api.forfriends.space/api/v1/customers/c1/cards/k2/stamp",
		BuildText("https://api.forfriends.space/", "c1", "k2", ActionStamp))
}

func TestEncodePNG(t *testing.T) {
	png, err := EncodePNG(BuildText("", "c1", "k2", ActionStamp))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "output must be a PNG")
}
