package proto

import "fmt"

// CodecName identifies the codec on the wire (grpc content-subtype).
const CodecName = "boundary-evict"

// Message is implemented by every wire type in this package.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal(data []byte) error
}

// Codec satisfies grpc's encoding.Codec for the hand-maintained wire types.
// Servers install it with grpc.ForceServerCodec, clients with
// grpc.ForceCodec.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("proto: cannot marshal %T", v)
	}
	return m.Marshal()
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("proto: cannot unmarshal into %T", v)
	}
	return m.Unmarshal(data)
}

func (Codec) Name() string {
	return CodecName
}
