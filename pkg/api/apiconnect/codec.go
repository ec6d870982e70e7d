package apiconnect

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// Ensure jsonCodec implements connect.Codec
var _ connect.Codec = jsonCodec{}

// jsonCodec marshals plain Go structs. It is registered under the "json" name,
// so Connect serves and sends application/json.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}

// WithJSON returns the codec option every LedgerService handler and client uses.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
