package gosymgen

import "errors"

// Error taxonomy shared by every package of the module. Callers match
// with errors.Is; context is added with fmt.Errorf("...: %w", ErrX).
var (
	// ErrIdentifier is returned when a declared name is not a valid,
	// non-reserved identifier of the target language.
	ErrIdentifier = errors.New("gosymgen: invalid identifier")

	// ErrShape is returned for inconsistent nested specifications and for
	// values whose shape does not match a declared shape.
	ErrShape = errors.New("gosymgen: shape mismatch")

	// ErrNameConflict is returned for duplicate element names, duplicate
	// variable or function names, and array/element name collisions.
	ErrNameConflict = errors.New("gosymgen: name conflict")

	// ErrUnboundSymbol is returned when an expression references a symbol
	// that none of the bound arguments provide.
	ErrUnboundSymbol = errors.New("gosymgen: unbound symbol")

	// ErrNotCallable is returned when a declared function has no body.
	ErrNotCallable = errors.New("gosymgen: function not callable")

	// ErrUnknownKey is returned when a name is absent from the table it
	// is looked up in.
	ErrUnknownKey = errors.New("gosymgen: unknown key")

	// ErrUnsupported is returned when an expression node or function
	// cannot be built, evaluated or printed.
	ErrUnsupported = errors.New("gosymgen: unsupported expression")
)
