package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sgivu/sgivu-auth/internal/oauth2"
)

func TestAuthorizationBuildMinimal(t *testing.T) {
	a, err := NewAuthorization("client-1").
		PrincipalName("user1").
		GrantType(oauth2.GrantAuthorizationCode).
		Build()
	require.NoError(t, err)
	require.NotEmpty(t, a.ID, "Build genera un UUID si no se asigna id")
	require.Equal(t, "client-1", a.RegisteredClientID)
	require.Nil(t, a.AccessToken)
}

func TestAuthorizationBuildRequiredFields(t *testing.T) {
	_, err := NewAuthorization("").
		PrincipalName("user1").
		GrantType(oauth2.GrantAuthorizationCode).
		Build()
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewAuthorization("client-1").
		GrantType(oauth2.GrantAuthorizationCode).
		Build()
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewAuthorization("client-1").
		PrincipalName("user1").
		Build()
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthorizationBuildRejectsInvertedTokenWindow(t *testing.T) {
	now := time.Now()
	_, err := NewAuthorization("client-1").
		PrincipalName("user1").
		GrantType(oauth2.GrantAuthorizationCode).
		AuthorizationCode(Token{Value: "code-1", IssuedAt: now, ExpiresAt: now.Add(-time.Minute)}).
		Build()
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthorizationBuildRejectsTokenWithoutValue(t *testing.T) {
	_, err := NewAuthorization("client-1").
		PrincipalName("user1").
		GrantType(oauth2.GrantAuthorizationCode).
		RefreshToken(Token{IssuedAt: time.Now()}).
		Build()
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthorizationState(t *testing.T) {
	a, err := NewAuthorization("client-1").
		PrincipalName("user1").
		GrantType(oauth2.GrantAuthorizationCode).
		Attribute(AttrState, "xyz-123").
		Build()
	require.NoError(t, err)
	require.Equal(t, "xyz-123", a.State())

	b, err := NewAuthorization("client-1").
		PrincipalName("user1").
		GrantType(oauth2.GrantAuthorizationCode).
		Build()
	require.NoError(t, err)
	require.Empty(t, b.State())
}

func TestClientBuildDefaults(t *testing.T) {
	c, err := NewClient("web-app").Build()
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.Equal(t, "web-app", c.ClientID)
	require.Equal(t, "web-app", c.ClientName, "ClientName defaults to ClientID")
	require.False(t, c.ClientIDIssuedAt.IsZero())
}

func TestClientBuildRequiresClientID(t *testing.T) {
	_, err := NewClient("").Build()
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewConsentValidation(t *testing.T) {
	c, err := NewConsent("client-1", "user1", []string{"authority-a"})
	require.NoError(t, err)
	require.Equal(t, []string{"authority-a"}, c.Authorities)

	_, err = NewConsent("", "user1", nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewConsent("client-1", "", nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}
