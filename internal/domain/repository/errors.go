package repository

import "errors"

var (
	// ErrNotFound indica que el recurso solicitado no existe. Durante la
	// reconstrucción de un grant o consent también cubre el caso de un
	// registered_client_id colgante: sin el client dueño, el agregado no
	// es reconstruible.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indica que los datos de entrada son inválidos
	// (campo requerido vacío, documento de atributos reservado-vacío).
	ErrInvalidInput = errors.New("invalid input")

	// ErrSerialization indica que el texto almacenado para
	// atributos/metadata/claims/settings no es JSON válido. Es
	// corrupción de datos: no reintentar.
	ErrSerialization = errors.New("serialization failure")

	// ErrConflict indica un conflicto de unicidad (ej: client_id duplicado).
	ErrConflict = errors.New("conflict")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput verifica si el error es ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsSerialization verifica si el error es ErrSerialization.
func IsSerialization(err error) bool {
	return errors.Is(err, ErrSerialization)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
