package brep

// SchemaAP214 is the STEP schema identifier spec.md §4.7 requires every
// Writer implementation to submit the compound under.
const SchemaAP214 = "AP214"

// Writer submits a set of named compounds to an external BRep engine and
// returns the resulting opaque byte stream (a STEP file). Implementations
// are expected to submit under SchemaAP214; a Writer that cannot reach its
// backend should be constructed to fail fast rather than silently
// degrading to a different format.
type Writer interface {
	Write(parts []NamedCompound) ([]byte, error)
}
