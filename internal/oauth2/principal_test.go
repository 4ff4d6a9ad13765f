package oauth2

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sgivu/sgivu-auth/internal/store/codec"
)

func TestUserDetailsRoundTrip(t *testing.T) {
	principal := &UserDetails{
		UserID:                7,
		Username:              "user1",
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		Authorities:           []string{"ROLE_USER", "ROLE_ADMIN"},
	}

	encoded, err := codec.EncodeAttributes(map[string]any{"principal": principal})
	require.NoError(t, err)
	require.Contains(t, encoded, UserDetailsClass)

	out, err := codec.DecodeAttributes(encoded)
	require.NoError(t, err)

	got, ok := out["principal"].(*UserDetails)
	require.True(t, ok, "principal revived as %T", out["principal"])
	require.Equal(t, principal.UserID, got.UserID)
	require.Equal(t, "user1", got.Username)
	require.Equal(t, "user1", got.Name())
	require.True(t, got.Enabled)
	require.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, got.Authorities)
}

func TestUserDetailsSnapshotWithoutUsername(t *testing.T) {
	encoded := `{"principal":{"@class":"` + UserDetailsClass + `","id":1}}`
	_, err := codec.DecodeAttributes(encoded)
	require.ErrorIs(t, err, codec.ErrMalformed)
}
