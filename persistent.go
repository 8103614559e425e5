package vault

// Persistent objects can be serialized to and deserialized from a binary
// representation. Persistent is implemented by protobuf generated code so
// any model defined in a codec.proto file satisfies it out of the box.
type Persistent interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}
