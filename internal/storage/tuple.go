package storage

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/coraldb/coraldb/pkg/vector"
)

// Value is a single column value. The binder and expression evaluator that
// would normally constrain this to a typed Value hierarchy are out of
// scope here; a bare interface{} is enough to exercise the execution and
// planner pieces this repo is actually about.
type Value = any

// Tuple is a row: an ordered sequence of column values matching a Schema.
type Tuple []Value

// wire tags distinguishing a vector.Vector column from any other column
// value when a Tuple crosses the WAL's msgpack boundary. Plain
// msgpack.Marshal/Unmarshal of a []any loses the concrete element type --
// a stored vector.Vector decodes back as a generic []interface{} -- so
// Tuple implements msgpack's CustomEncoder/CustomDecoder to tag each
// column instead of relying on the default interface{} handling.
const (
	wireOther  = 0
	wireVector = 1
)

func (t Tuple) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(len(t)); err != nil {
		return err
	}
	for _, v := range t {
		if vec, ok := v.(vector.Vector); ok {
			if err := enc.EncodeArrayLen(2); err != nil {
				return err
			}
			if err := enc.EncodeInt(wireVector); err != nil {
				return err
			}
			if err := enc.Encode([]float64(vec)); err != nil {
				return err
			}
			continue
		}
		if err := enc.EncodeArrayLen(2); err != nil {
			return err
		}
		if err := enc.EncodeInt(wireOther); err != nil {
			return err
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tuple) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	out := make(Tuple, n)
	for i := 0; i < n; i++ {
		colLen, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		if colLen != 2 {
			return fmt.Errorf("storage: malformed tuple column, want 2 elements, got %d", colLen)
		}
		tag, err := dec.DecodeInt()
		if err != nil {
			return err
		}
		switch tag {
		case wireVector:
			var raw []float64
			if err := dec.Decode(&raw); err != nil {
				return err
			}
			out[i] = vector.Vector(raw)
		default:
			var raw any
			if err := dec.Decode(&raw); err != nil {
				return err
			}
			out[i] = raw
		}
	}
	*t = out
	return nil
}

// Column describes one field of a Schema.
type Column struct {
	Name string
	// Dim is non-zero for a vector column, and is the column's fixed
	// dimensionality.
	Dim int
}

// Schema is an ordered list of columns, shared by tuples, expressions, and
// plan node output descriptions.
type Schema struct {
	Columns []Column
}

func (s Schema) ColumnIndex(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}
