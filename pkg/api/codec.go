// Package api defines the request and response messages of the splitledger
// RPC services and the JSON codec they travel in.
package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is the Connect codec name. Clients send "application/json"
// (unary) or "application/connect+json" (streaming).
const CodecName = "json"

// Codec is a connect.Codec that encodes messages with encoding/json.
// It replaces Connect's protojson codec, which only handles proto messages.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
