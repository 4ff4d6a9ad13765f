package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

type fakePrincipal struct {
	Name  string
	Admin bool
}

const fakePrincipalTag = "test.FakePrincipal"

func (p fakePrincipal) TypeTag() string { return fakePrincipalTag }
func (p fakePrincipal) TaggedMap() map[string]any {
	return map[string]any{"name": p.Name, "admin": p.Admin}
}

func init() {
	RegisterClass(fakePrincipalTag, func(m map[string]any) (any, error) {
		name, ok := m["name"].(string)
		if !ok {
			return nil, fmt.Errorf("missing name")
		}
		admin, _ := m["admin"].(bool)
		return fakePrincipal{Name: name, Admin: admin}, nil
	})
}

func TestEncodeAttributesNil(t *testing.T) {
	got, err := EncodeAttributes(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != NullLiteral {
		t.Fatalf("EncodeAttributes(nil) = %q, want %q", got, NullLiteral)
	}
}

func TestDecodeAttributesNullLiteral(t *testing.T) {
	m, err := DecodeAttributes(NullLiteral)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
}

func TestDecodeAttributesEmptyIsInvalid(t *testing.T) {
	_, err := DecodeAttributes("")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestDecodeAttributesMalformed(t *testing.T) {
	for _, s := range []string{"{", "not json", `["truncated"`} {
		if _, err := DecodeAttributes(s); !errors.Is(err, ErrMalformed) {
			t.Fatalf("DecodeAttributes(%q): expected ErrMalformed, got %v", s, err)
		}
	}
}

func TestAttributesRoundTripPreservesNumbers(t *testing.T) {
	in := map[string]any{
		"attr1": "v1",
		"count": 42,
		"ratio": 0.5,
	}
	encoded, err := EncodeAttributes(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeAttributes(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["attr1"] != "v1" {
		t.Fatalf("attr1 = %v", out["attr1"])
	}
	n, ok := out["count"].(json.Number)
	if !ok {
		t.Fatalf("count is %T, want json.Number", out["count"])
	}
	if v, err := n.Int64(); err != nil || v != 42 {
		t.Fatalf("count = %v (%v)", v, err)
	}
	r, ok := out["ratio"].(json.Number)
	if !ok {
		t.Fatalf("ratio is %T, want json.Number", out["ratio"])
	}
	if v, err := r.Float64(); err != nil || v != 0.5 {
		t.Fatalf("ratio = %v (%v)", v, err)
	}
}

func TestAttributesTaggedRoundTrip(t *testing.T) {
	in := map[string]any{
		"principal": fakePrincipal{Name: "user1", Admin: true},
	}
	encoded, err := EncodeAttributes(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// El documento lleva el tag de clase en el wire.
	var raw map[string]any
	if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	obj, ok := raw["principal"].(map[string]any)
	if !ok || obj[ClassKey] != fakePrincipalTag {
		t.Fatalf("expected tagged object, got %v", raw["principal"])
	}

	out, err := DecodeAttributes(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	p, ok := out["principal"].(fakePrincipal)
	if !ok {
		t.Fatalf("principal is %T, want fakePrincipal", out["principal"])
	}
	if p.Name != "user1" || !p.Admin {
		t.Fatalf("principal = %+v", p)
	}
}

func TestDecodeAttributesUnknownTagStaysPlain(t *testing.T) {
	encoded := `{"thing":{"@class":"com.example.Unknown","x":1}}`
	out, err := DecodeAttributes(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, ok := out["thing"].(map[string]any)
	if !ok {
		t.Fatalf("thing is %T, want map", out["thing"])
	}
	if m[ClassKey] != "com.example.Unknown" {
		t.Fatalf("expected @class preserved, got %v", m)
	}
}

func TestSettingsEncodeNilIsEmptyObject(t *testing.T) {
	got, err := EncodeSettings(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "{}" {
		t.Fatalf("EncodeSettings(nil) = %q, want {}", got)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	in := map[string]any{
		"require_authorization_consent": true,
		"access_token_ttl_seconds":      3600,
	}
	encoded, err := EncodeSettings(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeSettings(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["require_authorization_consent"] != true {
		t.Fatalf("require_authorization_consent = %v", out["require_authorization_consent"])
	}
	ttl, ok := out["access_token_ttl_seconds"].(json.Number)
	if !ok {
		t.Fatalf("ttl is %T, want json.Number", out["access_token_ttl_seconds"])
	}
	if v, _ := ttl.Int64(); v != 3600 {
		t.Fatalf("ttl = %v", v)
	}
}

func TestDecodeSettingsErrors(t *testing.T) {
	if _, err := DecodeSettings(""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := DecodeSettings("{broken"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}
