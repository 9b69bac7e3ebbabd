package types

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/spacemeshos/go-scale"
)

// Record is a runtime type with a registry name and a SCALE encoding.
type Record interface {
	scale.Encodable
	scale.Decodable
	TypeName() string
}

var (
	_ Record = (*States)(nil)
	_ Record = (*Proposal)(nil)
	_ Record = (*Concern)(nil)
	_ Record = (*ProposalWinner)(nil)
	_ Record = (*VecDeque)(nil)
	_ Record = (*Worker)(nil)
	_ Record = (*Project)(nil)
)

// MarshalScale returns the SCALE encoding of v.
func MarshalScale(v scale.Encodable) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := v.EncodeScale(scale.NewEncoder(&buf)); err != nil {
		return nil, fmt.Errorf("scale encode: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalScale decodes data into v. Every byte must be consumed.
func UnmarshalScale(data []byte, v scale.Decodable) error {
	n, err := v.DecodeScale(scale.NewDecoder(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("scale decode: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("scale decode: %d trailing bytes", len(data)-n)
	}
	return nil
}

// go-scale encodes fixed-width integers but only decodes compact
// ones, so little-endian decoding of u32 and u64 goes through byte
// arrays.

func decodeUint32(dec *scale.Decoder) (uint32, int, error) {
	var buf [4]byte
	n, err := scale.DecodeByteArray(dec, buf[:])
	if err != nil {
		return 0, n, err
	}
	return binary.LittleEndian.Uint32(buf[:]), n, nil
}

func decodeUint64(dec *scale.Decoder) (uint64, int, error) {
	var buf [8]byte
	n, err := scale.DecodeByteArray(dec, buf[:])
	if err != nil {
		return 0, n, err
	}
	return binary.LittleEndian.Uint64(buf[:]), n, nil
}

// EncodeScale writes c as a length-prefixed byte vector, so CID lists
// can use the struct slice helpers.
func (c *ProposalCID) EncodeScale(enc *scale.Encoder) (int, error) {
	return scale.EncodeByteSlice(enc, *c)
}

func (c *ProposalCID) DecodeScale(dec *scale.Decoder) (int, error) {
	b, n, err := scale.DecodeByteSlice(dec)
	if err != nil {
		return n, err
	}
	*c = b
	return n, nil
}
