// Package codec implementa la serialización de columnas de texto del
// authorization store: bags de atributos tipados (JSON con tag de
// clase) y sets delimitados por comas.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ClassKey es la clave reservada que marca un objeto JSON como snapshot
// de un tipo conocido (ej. el principal autenticado). Un decoder que no
// conozca el tag igual puede leer el objeto como mapa plano.
const ClassKey = "@class"

// NullLiteral es la codificación de un bag nil.
const NullLiteral = "null"

var (
	// ErrInvalid indica entrada inválida del caller: bag vacío donde se
	// esperaba "null" o "{}". Es un defecto upstream, no un estado.
	ErrInvalid = errors.New("codec: invalid input")

	// ErrMalformed indica que el texto almacenado no es JSON válido
	// (corrupción de datos; no reintentar).
	ErrMalformed = errors.New("codec: malformed document")
)

// Tagged es un valor no-plano que sabe serializarse como objeto JSON
// con tag de tipo explícito.
type Tagged interface {
	// TypeTag retorna el identificador de clase (fully-qualified).
	TypeTag() string
	// TaggedMap retorna los campos planos del snapshot.
	TaggedMap() map[string]any
}

// Reviver reconstruye un valor rico desde el mapa plano de un objeto
// taggeado. El mapa incluye la clave @class.
type Reviver func(map[string]any) (any, error)

var (
	revMu    sync.RWMutex
	revivers = map[string]Reviver{}
)

// RegisterClass registra un reviver para un tag de clase. Los paquetes
// que definen snapshots lo llaman en init(). Un tag sin reviver se
// decodifica como mapa plano.
func RegisterClass(tag string, fn Reviver) {
	revMu.Lock()
	defer revMu.Unlock()
	revivers[tag] = fn
}

func reviverFor(tag string) (Reviver, bool) {
	revMu.RLock()
	defer revMu.RUnlock()
	fn, ok := revivers[tag]
	return fn, ok
}

// EncodeAttributes serializa un bag de atributos a texto JSON.
// Un bag nil codifica como el literal "null". Valores que implementan
// Tagged se escriben como objeto con el campo @class; el resto se
// serializa como JSON plano.
func EncodeAttributes(m map[string]any) (string, error) {
	if m == nil {
		return NullLiteral, nil
	}
	b, err := json.Marshal(encodeValue(m))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return string(b), nil
}

func encodeValue(v any) any {
	if t, ok := v.(Tagged); ok {
		fields := t.TaggedMap()
		out := make(map[string]any, len(fields)+1)
		for k, fv := range fields {
			out[k] = encodeValue(fv)
		}
		out[ClassKey] = t.TypeTag()
		return out
	}
	switch vv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, mv := range vv {
			out[k] = encodeValue(mv)
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, ev := range vv {
			out[i] = encodeValue(ev)
		}
		return out
	default:
		return v
	}
}

// DecodeAttributes parsea texto JSON a un bag de atributos.
//
// Contrato:
//   - "" es ErrInvalid (los callers deben pasar "null" o "{}" para un
//     bag vacío).
//   - "null" decodifica a un mapa vacío.
//   - JSON inválido es ErrMalformed.
//   - Objetos con @class registrado se reconstruyen vía su Reviver;
//     tags desconocidos quedan como mapa plano (incluyendo @class).
//   - Los números se preservan como json.Number (sin coerción a
//     float64) para que el round-trip sea fiel.
func DecodeAttributes(s string) (map[string]any, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty attribute document", ErrInvalid)
	}
	if s == NullLiteral {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	out := make(map[string]any, len(raw))
	for k, v := range raw {
		rv, err := decodeValue(v)
		if err != nil {
			return nil, err
		}
		out[k] = rv
	}
	return out, nil
}

func decodeValue(v any) (any, error) {
	switch vv := v.(type) {
	case map[string]any:
		for k, mv := range vv {
			rv, err := decodeValue(mv)
			if err != nil {
				return nil, err
			}
			vv[k] = rv
		}
		if tag, ok := vv[ClassKey].(string); ok {
			if revive, known := reviverFor(tag); known {
				out, err := revive(vv)
				if err != nil {
					return nil, fmt.Errorf("%w: revive %s: %v", ErrMalformed, tag, err)
				}
				return out, nil
			}
		}
		return vv, nil
	case []any:
		for i, ev := range vv {
			rv, err := decodeValue(ev)
			if err != nil {
				return nil, err
			}
			vv[i] = rv
		}
		return vv, nil
	default:
		return v, nil
	}
}

// EncodeSettings serializa un bag de settings (valores primitivos) como
// objeto JSON plano, sin tagging de tipos. Un bag nil produce "{}",
// nunca una columna null.
func EncodeSettings(m map[string]any) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return string(b), nil
}

// DecodeSettings parsea un objeto JSON plano de settings. A diferencia
// de los atributos, una columna vacía es inválida (el encode siempre
// escribe al menos "{}").
func DecodeSettings(s string) (map[string]any, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty settings document", ErrInvalid)
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// SortedKeys retorna las claves de un bag en orden estable. Útil para
// logs y tests determinísticos.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
