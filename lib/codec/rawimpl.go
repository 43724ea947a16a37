package codec

// NewRawCodec creates a new codec that stores value bytes verbatim.
// This is the default codec: SQLite BLOB columns hold arbitrary bytes,
// so no escaping or transformation is required.
func NewRawCodec() ICodec {
	return &rawCodecImpl{}
}

// rawCodecImpl implements ICodec as an identity transformation
type rawCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c rawCodecImpl) Encode(value []byte) ([]byte, error) {
	return value, nil
}

func (c rawCodecImpl) Decode(data []byte) ([]byte, error) {
	return data, nil
}

func (c rawCodecImpl) Name() string {
	return "raw"
}
