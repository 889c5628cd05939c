package shardrpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodecName is registered as a gRPC content-subtype. No protoc
// compiler runs in this workspace, so the wire-schema messages in
// types.go are carried as JSON over gRPC's HTTP/2 framing instead of
// generated protobuf stubs; message shapes still mirror spec.md §6
// field-for-field.
const jsonCodecName = "snaprag-json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
