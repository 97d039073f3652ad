package types

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindUnknownRegister ErrKind = iota // register name lookup miss
	ErrKindUnknownField                   // field name lookup miss
	ErrKindArgument                       // unsupported value type or malformed spec (bit range, literal)
	ErrKindSealed                         // structural mutation after the building phase closed
	ErrKindRange                          // addressed access beyond a configured bound
	ErrKindWordSize                       // unsupported device word size
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind. This makes the
// sentinels below usable with errors.Is even when an error site attaches its
// own message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrUnknownRegister indicates a register name lookup miss on a sealed file.
	ErrUnknownRegister = &Error{Kind: ErrKindUnknownRegister, Msg: "unknown register"}
	// ErrUnknownField indicates a field name lookup miss on a register.
	ErrUnknownField = &Error{Kind: ErrKindUnknownField, Msg: "unknown field"}
	// ErrInvalidArgument indicates a value that is neither an integer, a field
	// mapping, nor a compatible register snapshot, or a malformed field spec.
	ErrInvalidArgument = &Error{Kind: ErrKindArgument, Msg: "invalid argument"}
	// ErrSealed indicates a structural mutation after the building phase closed.
	ErrSealed = &Error{Kind: ErrKindSealed, Msg: "register file is sealed"}
	// ErrIndexOutOfRange indicates an addressed access beyond a configured bound.
	ErrIndexOutOfRange = &Error{Kind: ErrKindRange, Msg: "index out of range"}
	// ErrBadWordSize indicates a device word size other than 1, 2, 4 or 8 bytes.
	ErrBadWordSize = &Error{Kind: ErrKindWordSize, Msg: "unsupported word size"}
)

// -----------------------------------------------------------------------------
// Device contract
// -----------------------------------------------------------------------------

// Device routes register transfers to a backend. Implementations decide how a
// masked write is realized: plain full-word store, read-modify-write, or a
// narrower aligned sub-word store.
//
// All addresses are absolute (file base already applied). Errors from the
// backend propagate unmodified; the caller never retries. Implementations are
// stateless with respect to register semantics.
type Device interface {
	// WordBytes returns the transfer word size in bytes (1, 2, 4 or 8).
	WordBytes() int

	// Read returns the word at addr.
	Read(addr uint64) (uint64, error)

	// Write transfers value to the word at addr. mask selects the bits this
	// transaction changes; writeMask is the register's hardware-writable bit
	// set, used to decide whether untouched writable bits must be preserved.
	Write(addr uint64, value, mask, writeMask uint64) error

	// BlockRead returns n consecutive words starting at addr.
	BlockRead(addr uint64, n int) ([]uint64, error)

	// BlockWrite transfers consecutive words starting at addr.
	BlockWrite(addr uint64, values []uint64) error
}

// WordConn is the raw connection contract for word-granular backends. It is
// what Word and Simple devices are built on: one read primitive and one
// full-word write primitive.
type WordConn interface {
	// ReadWord returns the word at addr.
	ReadWord(addr uint64) (uint64, error)

	// WriteWord replaces the whole word at addr.
	WriteWord(addr uint64, value uint64) error
}

// SubwordConn is the raw connection contract for backends that can write less
// than a full word. WriteSubword stores size bytes of value at addr; addr may
// carry a lane offset within the word (register addresses are word-aligned,
// the low address bits select the lane), and value is always the full word
// value, not shifted down to the lane.
type SubwordConn interface {
	// ReadWord returns the word at addr.
	ReadWord(addr uint64) (uint64, error)

	// WriteSubword stores size bytes of the full word value at addr.
	WriteSubword(addr uint64, value uint64, size int) error
}
