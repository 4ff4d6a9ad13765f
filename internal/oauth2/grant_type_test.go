package oauth2

import (
	"errors"
	"testing"
)

func TestResolveGrantTypeWellKnownIsSingleton(t *testing.T) {
	cases := map[string]*GrantType{
		"authorization_code": GrantAuthorizationCode,
		"client_credentials": GrantClientCredentials,
		"refresh_token":      GrantRefreshToken,
		"urn:ietf:params:oauth:grant-type:device_code":    GrantDeviceCode,
		"urn:ietf:params:oauth:grant-type:token-exchange": GrantTokenExchange,
	}
	for wire, want := range cases {
		got, err := ResolveGrantType(wire)
		if err != nil {
			t.Fatalf("ResolveGrantType(%q): %v", wire, err)
		}
		if got != want {
			t.Fatalf("ResolveGrantType(%q) returned a new instance, want the shared one", wire)
		}
	}
}

func TestResolveGrantTypeExtension(t *testing.T) {
	a, err := ResolveGrantType("urn:example:custom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ResolveGrantType("urn:example:custom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("extensions should be fresh instances")
	}
	if a.Value() != b.Value() {
		t.Fatalf("extension values differ: %q vs %q", a.Value(), b.Value())
	}
}

func TestResolveGrantTypeEmpty(t *testing.T) {
	if _, err := ResolveGrantType(""); !errors.Is(err, ErrEmptyValue) {
		t.Fatalf("expected ErrEmptyValue, got %v", err)
	}
}

func TestResolveAuthMethodWellKnownIsSingleton(t *testing.T) {
	cases := map[string]*ClientAuthMethod{
		"client_secret_basic": AuthMethodClientSecretBasic,
		"client_secret_post":  AuthMethodClientSecretPost,
		"client_secret_jwt":   AuthMethodClientSecretJWT,
		"private_key_jwt":     AuthMethodPrivateKeyJWT,
		"none":                AuthMethodNone,
	}
	for wire, want := range cases {
		got, err := ResolveAuthMethod(wire)
		if err != nil {
			t.Fatalf("ResolveAuthMethod(%q): %v", wire, err)
		}
		if got != want {
			t.Fatalf("ResolveAuthMethod(%q) returned a new instance, want the shared one", wire)
		}
	}
}

func TestResolveAuthMethodEmpty(t *testing.T) {
	if _, err := ResolveAuthMethod(""); !errors.Is(err, ErrEmptyValue) {
		t.Fatalf("expected ErrEmptyValue, got %v", err)
	}
}

func TestResolveAuthMethodExtension(t *testing.T) {
	m, err := ResolveAuthMethod("tls_client_auth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Value() != "tls_client_auth" {
		t.Fatalf("Value() = %q", m.Value())
	}
}
