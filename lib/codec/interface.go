package codec

// ICodec is the interface for all value codecs.
// A codec translates an application value into the byte representation
// stored in the backing database and back.
type ICodec interface {
	// Encode encodes a value into its stored byte representation.
	// It returns the encoded bytes and an error if any
	Encode(value []byte) ([]byte, error)
	// Decode decodes a stored byte representation back into the value.
	// It must hold that Decode(Encode(v)) == v for every input v
	Decode(data []byte) ([]byte, error)
	// Name returns the identifier of the codec (e.g. for config and info reporting)
	Name() string
}
