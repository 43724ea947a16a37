package codec

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// NewGOBCodec creates a new codec using the stdlib gob format
func NewGOBCodec() ICodec {
	return &gobCodecImpl{}
}

// gobCodecImpl implements ICodec using the stdlib encoding/gob package
type gobCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (c gobCodecImpl) Encode(value []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&value); err != nil {
		return nil, fmt.Errorf("gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (c gobCodecImpl) Decode(data []byte) ([]byte, error) {
	var value []byte
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&value); err != nil {
		return nil, fmt.Errorf("gob decode: %w", err)
	}
	return value, nil
}

func (c gobCodecImpl) Name() string {
	return "gob"
}
