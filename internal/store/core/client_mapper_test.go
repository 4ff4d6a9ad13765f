package core

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sgivu/sgivu-auth/internal/domain/repository"
	"github.com/sgivu/sgivu-auth/internal/oauth2"
)

func TestClientRoundTrip(t *testing.T) {
	issued := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	expires := issued.AddDate(1, 0, 0)

	c, err := repository.NewClient("web-app").
		ID("rc-1").
		ClientIDIssuedAt(issued).
		Secret("$2a$10$hash").
		SecretExpiresAt(expires).
		Name("Web App").
		AuthMethod(oauth2.AuthMethodClientSecretBasic).
		AuthMethod(oauth2.AuthMethodClientSecretPost).
		GrantType(oauth2.GrantAuthorizationCode).
		GrantType(oauth2.GrantRefreshToken).
		RedirectURI("https://app.example.com/callback").
		PostLogoutRedirectURI("https://app.example.com/bye").
		Scope("openid").
		Scope("message.read").
		ClientSettings(map[string]any{
			repository.SettingRequireConsent:  true,
			repository.SettingRequireProofKey: false,
		}).
		TokenSettings(map[string]any{
			repository.SettingAccessTokenTTL: 3600,
		}).
		Build()
	require.NoError(t, err)

	row, err := ClientToRow(c)
	require.NoError(t, err)
	require.Equal(t, "rc-1", row.ID)
	require.Equal(t, "client_secret_basic,client_secret_post", row.AuthenticationMethods)
	require.Equal(t, "authorization_code,refresh_token", row.GrantTypes)
	require.Equal(t, "message.read,openid", row.Scopes)

	got, err := RowToClient(row)
	require.NoError(t, err)
	require.Equal(t, c.ID, got.ID)
	require.Equal(t, c.ClientID, got.ClientID)
	require.Equal(t, c.ClientSecret, got.ClientSecret)
	require.NotNil(t, got.ClientSecretExpiresAt)
	require.True(t, got.ClientSecretExpiresAt.Equal(expires))
	require.Equal(t, "Web App", got.ClientName)

	// Los bien conocidos vuelven como el singleton compartido.
	require.Contains(t, got.AuthMethods, oauth2.AuthMethodClientSecretBasic)
	require.Contains(t, got.AuthMethods, oauth2.AuthMethodClientSecretPost)
	require.Contains(t, got.GrantTypes, oauth2.GrantAuthorizationCode)
	require.Contains(t, got.GrantTypes, oauth2.GrantRefreshToken)

	require.Equal(t, []string{"https://app.example.com/callback"}, got.RedirectURIs)
	require.Equal(t, []string{"message.read", "openid"}, got.Scopes)

	require.Equal(t, true, got.ClientSettings[repository.SettingRequireConsent])
	require.Equal(t, false, got.ClientSettings[repository.SettingRequireProofKey])
	ttl, ok := got.TokenSettings[repository.SettingAccessTokenTTL].(json.Number)
	require.True(t, ok, "ttl is %T", got.TokenSettings[repository.SettingAccessTokenTTL])
	n, err := ttl.Int64()
	require.NoError(t, err)
	require.EqualValues(t, 3600, n)
}

func TestClientToRowNilSettingsBecomeEmptyObject(t *testing.T) {
	c, err := repository.NewClient("bare").ID("rc-2").Build()
	require.NoError(t, err)

	row, err := ClientToRow(c)
	require.NoError(t, err)
	require.Equal(t, "{}", row.ClientSettings)
	require.Equal(t, "{}", row.TokenSettings)
	require.Nil(t, row.ClientSecret)

	got, err := RowToClient(row)
	require.NoError(t, err)
	require.Empty(t, got.ClientSettings)
	require.Empty(t, got.ClientSecret)
}

func TestRowToClientMalformedSettingsIsInvalidInput(t *testing.T) {
	row := &ClientRow{
		ID:             "rc-3",
		ClientID:       "broken",
		ClientName:     "broken",
		ClientSettings: "{oops",
		TokenSettings:  "{}",
	}
	_, err := RowToClient(row)
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestConsentRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := ConsentMapper{Clients: testClients(t, "rc-1")}

	c, err := repository.NewConsent("rc-1", "user1", []string{"authority-b", "authority-a"})
	require.NoError(t, err)

	row, err := m.ToRow(c)
	require.NoError(t, err)
	require.Equal(t, "authority-a,authority-b", row.Authorities)

	got, err := m.ToConsent(ctx, row)
	require.NoError(t, err)
	require.Equal(t, "rc-1", got.RegisteredClientID)
	require.Equal(t, "user1", got.PrincipalName)
	require.Equal(t, []string{"authority-a", "authority-b"}, got.Authorities)
}

func TestConsentDanglingClientIsNotFound(t *testing.T) {
	ctx := context.Background()
	m := ConsentMapper{Clients: testClients(t)}

	row := &ConsentRow{RegisteredClientID: "ghost", PrincipalName: "user1", Authorities: "a"}
	_, err := m.ToConsent(ctx, row)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
