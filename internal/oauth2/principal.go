package oauth2

import (
	"encoding/json"
	"fmt"

	"github.com/sgivu/sgivu-auth/internal/store/codec"
)

// UserDetailsClass es el tag de clase con el que se persiste el
// snapshot del principal dentro del bag de atributos. Se mantiene el
// identificador original para que los grants ya almacenados sigan
// siendo reconstruibles.
const UserDetailsClass = "com.sgivu.auth.security.CustomUserDetails"

// UserDetails es el snapshot del principal autenticado que viaja dentro
// de los atributos de una Authorization. No es una credencial: el
// password nunca se persiste.
type UserDetails struct {
	UserID                int64
	Username              string
	Enabled               bool
	AccountNonExpired     bool
	AccountNonLocked      bool
	CredentialsNonExpired bool
	Authorities           []string
}

// Name retorna el nombre del principal (el username).
func (u *UserDetails) Name() string { return u.Username }

// TypeTag implementa codec.Tagged.
func (u *UserDetails) TypeTag() string { return UserDetailsClass }

// TaggedMap implementa codec.Tagged. Expone los campos públicos del
// snapshot; un decoder que no conozca el tag puede leer al menos
// username como mapa plano.
func (u *UserDetails) TaggedMap() map[string]any {
	auths := make([]any, len(u.Authorities))
	for i, a := range u.Authorities {
		auths[i] = a
	}
	return map[string]any{
		"id":                    u.UserID,
		"username":              u.Username,
		"enabled":               u.Enabled,
		"accountNonExpired":     u.AccountNonExpired,
		"accountNonLocked":      u.AccountNonLocked,
		"credentialsNonExpired": u.CredentialsNonExpired,
		"authorities":           auths,
	}
}

func init() {
	codec.RegisterClass(UserDetailsClass, reviveUserDetails)
}

func reviveUserDetails(m map[string]any) (any, error) {
	username, ok := m["username"].(string)
	if !ok || username == "" {
		return nil, fmt.Errorf("user details snapshot without username")
	}
	u := &UserDetails{Username: username}
	if id, ok := m["id"].(json.Number); ok {
		if n, err := id.Int64(); err == nil {
			u.UserID = n
		}
	}
	u.Enabled = boolField(m, "enabled")
	u.AccountNonExpired = boolField(m, "accountNonExpired")
	u.AccountNonLocked = boolField(m, "accountNonLocked")
	u.CredentialsNonExpired = boolField(m, "credentialsNonExpired")
	if raw, ok := m["authorities"].([]any); ok {
		for _, a := range raw {
			if s, ok := a.(string); ok {
				u.Authorities = append(u.Authorities, s)
			}
		}
	}
	return u, nil
}

func boolField(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}
