// ABOUTME: JSON codec for gRPC message framing
// ABOUTME: Registered with the encoding registry under the name "json"

package blogrpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype the BlogService wire format uses.
// Clients must dial with grpc.CallContentSubtype(CodecName).
const CodecName = "json"

// jsonCodec marshals RPC messages as JSON.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
