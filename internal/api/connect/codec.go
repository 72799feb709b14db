package connect

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// CodecName is the codec name negotiated through the content type
// (application/json, application/connect+json).
const CodecName = "json"

// Codec marshals plain Go message structs as JSON. The services exchange Go
// structs rather than generated protobuf messages, so the built-in JSON codec
// (which requires proto.Message) cannot be used.
type Codec struct{}

func (Codec) Name() string {
	return CodecName
}

func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %T", msg)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return errors.Wrapf(err, "failed to unmarshal %T", msg)
	}
	return nil
}
