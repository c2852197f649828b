// Package codec registers a JSON wire codec for google.golang.org/grpc,
// used in place of generated protobuf message types. The service methods
// in internal/rpcapi exchange plain Go structs; this codec is what lets
// grpc.Server and grpc.ClientConn move them over the wire without a
// .proto/.pb.go toolchain step.
package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// Name is the content-subtype grpc negotiates for this codec, reachable
// via grpc.CallContentSubtype("json") on the client and
// grpc.ForceServerCodec(codec.Codec{}) on the server.
const Name = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec implements encoding.Codec by marshaling through encoding/json.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal: %w", err)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("codec: unmarshal: %w", err)
	}
	return nil
}

func (Codec) Name() string { return Name }
