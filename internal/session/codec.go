package session

import (
	"bytes"
	"encoding/gob"

	"google.golang.org/grpc/encoding"

	"github.com/coraldb/coraldb/internal/plan"
	"github.com/coraldb/coraldb/pkg/vector"
)

// codecName is registered with grpc's encoding package via
// encoding.RegisterCodec, replacing the usual protobuf wire format. There
// is no .proto definition or protoc-generated client/server stub for this
// service anywhere in this repo's lineage, so rather than hand-write
// protobuf wire bytes by guesswork this service speaks gob instead --
// a real, if unusual, grpc-go codec, registered the way grpc-go expects
// any non-default codec to be.
const codecName = "gob"

func init() {
	encoding.RegisterCodec(gobCodec{})

	gob.Register(vector.Vector{})
	gob.Register(plan.ColumnRef{})
	gob.Register(plan.Constant{})
	gob.Register(plan.ArrayLiteral{})
	gob.Register(plan.VectorDistance{})
	gob.Register(&plan.SeqScanNode{})
	gob.Register(&plan.ValuesNode{})
	gob.Register(&plan.ProjectionNode{})
	gob.Register(&plan.SortNode{})
	gob.Register(&plan.LimitNode{})
	gob.Register(&plan.TopNNode{})
	gob.Register(&plan.VectorIndexScanNode{})
	gob.Register(&plan.InsertNode{})
}

// gobCodec implements grpc/encoding.Codec over encoding/gob.
type gobCodec struct{}

func (gobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodec) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func (gobCodec) Name() string { return codecName }
