package codec

import (
	"encoding/json"
	"fmt"
)

// NewJSONCodec creates a new codec that wraps values in a JSON envelope.
// encoding/json base64-encodes byte slices, so the stored representation
// is plain text and survives any escaping layer unchanged.
func NewJSONCodec() ICodec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements ICodec using the stdlib encoding/json package
type jsonCodecImpl struct {
}

// envelope is the stored JSON document
type envelope struct {
	Value []byte `json:"value"`
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c jsonCodecImpl) Encode(value []byte) ([]byte, error) {
	data, err := json.Marshal(envelope{Value: value})
	if err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return data, nil
}

func (c jsonCodecImpl) Decode(data []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("json decode: %w", err)
	}
	return env.Value, nil
}

func (c jsonCodecImpl) Name() string {
	return "json"
}
