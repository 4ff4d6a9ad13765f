package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sgivu/sgivu-auth/internal/domain/repository"
	"github.com/sgivu/sgivu-auth/internal/oauth2"
	"github.com/sgivu/sgivu-auth/internal/store/codec"
)

// ClientResolver es lo mínimo que necesita el mapper para validar la
// referencia al registered client de una fila. El ClientRepository
// completo la satisface.
type ClientResolver interface {
	FindByID(ctx context.Context, id string) (*repository.RegisteredClient, error)
}

// AuthorizationMapper convierte Authorization <-> AuthorizationRow.
// La dirección fila->agregado exige que el registered client referido
// exista todavía: una fila colgando de un client borrado es un
// ErrNotFound, no un agregado a medias.
type AuthorizationMapper struct {
	Clients ClientResolver
}

// ToRow aplana el agregado. Las colecciones vacías colapsan a NULL, y
// el atributo "state" se materializa además en su propia columna para
// que FindByToken pueda matchearlo junto a los token values.
func (m *AuthorizationMapper) ToRow(a *repository.Authorization) (*AuthorizationRow, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: authorization must not be nil", repository.ErrInvalidInput)
	}
	if a.ID == "" || a.RegisteredClientID == "" {
		return nil, fmt.Errorf("%w: authorization id and registered client id are required", repository.ErrInvalidInput)
	}
	if a.GrantType == nil {
		return nil, fmt.Errorf("%w: grant type is required", repository.ErrInvalidInput)
	}

	attrs, err := codec.EncodeAttributes(a.Attributes)
	if err != nil {
		return nil, wrapCodecErr("attributes", err)
	}

	row := &AuthorizationRow{
		ID:                 a.ID,
		RegisteredClientID: a.RegisteredClientID,
		PrincipalName:      a.PrincipalName,
		GrantType:          a.GrantType.Value(),
		AuthorizedScopes:   nullIfEmpty(codec.EncodeDelimitedSet(a.AuthorizedScopes)),
		Attributes:         nullIfEmpty(attrs),
		State:              nullIfEmpty(a.State()),
	}

	if t := a.AuthorizationCode; t != nil {
		if err := encodeSlot(t, &row.AuthorizationCodeValue, &row.AuthorizationCodeIssuedAt, &row.AuthorizationCodeExpiresAt, &row.AuthorizationCodeMetadata); err != nil {
			return nil, wrapCodecErr("authorization code metadata", err)
		}
	}
	if t := a.AccessToken; t != nil {
		if err := encodeSlot(&t.Token, &row.AccessTokenValue, &row.AccessTokenIssuedAt, &row.AccessTokenExpiresAt, &row.AccessTokenMetadata); err != nil {
			return nil, wrapCodecErr("access token metadata", err)
		}
		row.AccessTokenType = nullIfEmpty(t.TokenType)
		row.AccessTokenScopes = nullIfEmpty(codec.EncodeDelimitedSet(t.Scopes))
	}
	if t := a.RefreshToken; t != nil {
		if err := encodeSlot(t, &row.RefreshTokenValue, &row.RefreshTokenIssuedAt, &row.RefreshTokenExpiresAt, &row.RefreshTokenMetadata); err != nil {
			return nil, wrapCodecErr("refresh token metadata", err)
		}
	}
	if t := a.IDToken; t != nil {
		if err := encodeSlot(&t.Token, &row.IDTokenValue, &row.IDTokenIssuedAt, &row.IDTokenExpiresAt, &row.IDTokenMetadata); err != nil {
			return nil, wrapCodecErr("id token metadata", err)
		}
		claims, err := codec.EncodeAttributes(t.Claims)
		if err != nil {
			return nil, wrapCodecErr("id token claims", err)
		}
		row.IDTokenClaims = nullIfEmpty(claims)
	}
	if t := a.UserCode; t != nil {
		if err := encodeSlot(t, &row.UserCodeValue, &row.UserCodeIssuedAt, &row.UserCodeExpiresAt, &row.UserCodeMetadata); err != nil {
			return nil, wrapCodecErr("user code metadata", err)
		}
	}
	if t := a.DeviceCode; t != nil {
		if err := encodeSlot(t, &row.DeviceCodeValue, &row.DeviceCodeIssuedAt, &row.DeviceCodeExpiresAt, &row.DeviceCodeMetadata); err != nil {
			return nil, wrapCodecErr("device code metadata", err)
		}
	}

	return row, nil
}

// ToAuthorization reconstruye el agregado desde su fila. Un slot existe
// si su columna value no es NULL, sin importar el resto del grupo.
func (m *AuthorizationMapper) ToAuthorization(ctx context.Context, row *AuthorizationRow) (*repository.Authorization, error) {
	if row == nil {
		return nil, fmt.Errorf("%w: authorization row must not be nil", repository.ErrInvalidInput)
	}

	if _, err := m.Clients.FindByID(ctx, row.RegisteredClientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: registered client %q referenced by authorization %q", repository.ErrNotFound, row.RegisteredClientID, row.ID)
		}
		return nil, err
	}

	grant, err := oauth2.ResolveGrantType(row.GrantType)
	if err != nil {
		return nil, fmt.Errorf("%w: grant type: %v", repository.ErrInvalidInput, err)
	}

	b := repository.NewAuthorization(row.RegisteredClientID).
		ID(row.ID).
		PrincipalName(row.PrincipalName).
		GrantType(grant)

	if row.AuthorizedScopes != nil {
		b.AuthorizedScopes(codec.DecodeDelimitedSet(*row.AuthorizedScopes))
	}
	if row.Attributes != nil {
		attrs, err := codec.DecodeAttributes(*row.Attributes)
		if err != nil {
			return nil, wrapCodecErr("attributes", err)
		}
		b.Attributes(attrs)
	}
	// La columna state es derivada; si el bag no la trae, la fila manda.
	if row.State != nil {
		b.Attribute(repository.AttrState, *row.State)
	}

	if row.AuthorizationCodeValue != nil {
		t, err := decodeSlot(row.AuthorizationCodeValue, row.AuthorizationCodeIssuedAt, row.AuthorizationCodeExpiresAt, row.AuthorizationCodeMetadata)
		if err != nil {
			return nil, wrapCodecErr("authorization code metadata", err)
		}
		b.AuthorizationCode(t)
	}
	if row.AccessTokenValue != nil {
		t, err := decodeSlot(row.AccessTokenValue, row.AccessTokenIssuedAt, row.AccessTokenExpiresAt, row.AccessTokenMetadata)
		if err != nil {
			return nil, wrapCodecErr("access token metadata", err)
		}
		at := repository.AccessToken{Token: t, TokenType: deref(row.AccessTokenType)}
		if row.AccessTokenScopes != nil {
			at.Scopes = codec.DecodeDelimitedSet(*row.AccessTokenScopes)
		}
		b.AccessToken(at)
	}
	if row.RefreshTokenValue != nil {
		t, err := decodeSlot(row.RefreshTokenValue, row.RefreshTokenIssuedAt, row.RefreshTokenExpiresAt, row.RefreshTokenMetadata)
		if err != nil {
			return nil, wrapCodecErr("refresh token metadata", err)
		}
		b.RefreshToken(t)
	}
	if row.IDTokenValue != nil {
		t, err := decodeSlot(row.IDTokenValue, row.IDTokenIssuedAt, row.IDTokenExpiresAt, row.IDTokenMetadata)
		if err != nil {
			return nil, wrapCodecErr("id token metadata", err)
		}
		it := repository.IDToken{Token: t}
		if row.IDTokenClaims != nil {
			claims, err := codec.DecodeAttributes(*row.IDTokenClaims)
			if err != nil {
				return nil, wrapCodecErr("id token claims", err)
			}
			it.Claims = claims
		}
		b.IDToken(it)
	}
	if row.UserCodeValue != nil {
		t, err := decodeSlot(row.UserCodeValue, row.UserCodeIssuedAt, row.UserCodeExpiresAt, row.UserCodeMetadata)
		if err != nil {
			return nil, wrapCodecErr("user code metadata", err)
		}
		b.UserCode(t)
	}
	if row.DeviceCodeValue != nil {
		t, err := decodeSlot(row.DeviceCodeValue, row.DeviceCodeIssuedAt, row.DeviceCodeExpiresAt, row.DeviceCodeMetadata)
		if err != nil {
			return nil, wrapCodecErr("device code metadata", err)
		}
		b.DeviceCode(t)
	}

	return b.Build()
}

func encodeSlot(t *repository.Token, value **string, issuedAt, expiresAt **time.Time, metadata **string) error {
	*value = nullIfEmpty(t.Value)
	*issuedAt = timePtr(t.IssuedAt)
	*expiresAt = timePtr(t.ExpiresAt)
	// Metadata ausente queda como columna NULL, no como el texto "null".
	if t.Metadata == nil {
		return nil
	}
	meta, err := codec.EncodeAttributes(t.Metadata)
	if err != nil {
		return err
	}
	*metadata = nullIfEmpty(meta)
	return nil
}

func decodeSlot(value *string, issuedAt, expiresAt *time.Time, metadata *string) (repository.Token, error) {
	t := repository.Token{
		Value:     deref(value),
		IssuedAt:  derefTime(issuedAt),
		ExpiresAt: derefTime(expiresAt),
	}
	if metadata != nil {
		meta, err := codec.DecodeAttributes(*metadata)
		if err != nil {
			return repository.Token{}, err
		}
		t.Metadata = meta
	}
	return t, nil
}

// wrapCodecErr traduce los sentinels del codec a los de repository:
// input vacío es un problema del caller, JSON roto es corrupción de lo
// persistido.
func wrapCodecErr(what string, err error) error {
	switch {
	case errors.Is(err, codec.ErrInvalid):
		return fmt.Errorf("%w: %s: %v", repository.ErrInvalidInput, what, err)
	case errors.Is(err, codec.ErrMalformed):
		return fmt.Errorf("%w: %s: %v", repository.ErrSerialization, what, err)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
