package codec

import (
	"sort"
	"strings"
)

// Delimiter usado para serializar sets de strings en una sola columna
// (scopes, grant types, redirect URIs, authorities).
//
// Limitación conocida del formato: no hay escaping. Un valor que
// contenga una coma no está soportado por el contrato.
const Delimiter = ","

// EncodeDelimitedSet serializa un set de strings como texto delimitado
// por comas. Los duplicados colapsan y el resultado es determinístico
// (orden lexicográfico). Un set vacío o nil produce "".
func EncodeDelimitedSet(values []string) string {
	if len(values) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return strings.Join(out, Delimiter)
}

// DecodeDelimitedSet parsea texto delimitado por comas a un set de
// strings. Tolerante con entrada vacía: retorna un set vacío, nunca
// error. Los elementos vacíos se descartan y los duplicados colapsan.
func DecodeDelimitedSet(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, Delimiter)
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
