package world

// FailKind is the engine-internal error taxonomy. Every user-facing failure
// renders as narrative text; the kind travels in the effects record so the
// host can react programmatically.
type FailKind string

const (
	FailUnknownCommand       FailKind = "unknown_command"
	FailBlocked              FailKind = "blocked"
	FailOutOfBounds          FailKind = "out_of_bounds"
	FailInsufficientResource FailKind = "insufficient_resource"
	FailNotFound             FailKind = "not_found"
	FailConflict             FailKind = "conflict"
	FailUnavailable          FailKind = "unavailable"
	FailInvariant            FailKind = "invariant"
)

// Failure is a recoverable command failure. It is a value, not a panic:
// handlers return it and the dispatcher renders Message to the player.
type Failure struct {
	Kind    FailKind
	Message string
}

func (f *Failure) Error() string { return f.Message }

// NewFailure builds a Failure of the given kind.
func NewFailure(kind FailKind, msg string) *Failure {
	return &Failure{Kind: kind, Message: msg}
}

// BarrierMessage is the fixed narration for walking off the map edge.
const BarrierMessage = "A shimmering magical barrier blocks your way. The world simply ends here."
