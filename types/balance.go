package types

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// Balance is an unsigned 128-bit amount, stored little-endian as the
// runtime encodes it.
type Balance [16]byte

var maxBalance = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// NewBalance returns a Balance holding v.
func NewBalance(v uint64) Balance {
	var b Balance
	binary.LittleEndian.PutUint64(b[:8], v)
	return b
}

// BalanceFromBig converts v; it must lie in [0, 2^128).
func BalanceFromBig(v *big.Int) (Balance, error) {
	var b Balance
	if v.Sign() < 0 || v.Cmp(maxBalance) > 0 {
		return b, fmt.Errorf("types: balance %s out of u128 range", v)
	}
	be := v.FillBytes(make([]byte, 16))
	for i := range be {
		b[i] = be[15-i]
	}
	return b, nil
}

// Big returns the amount as a big.Int.
func (b Balance) Big() *big.Int {
	be := make([]byte, 16)
	for i := range b {
		be[15-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}

// Uint64 returns the amount if it fits.
func (b Balance) Uint64() (uint64, bool) {
	return binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]) == 0
}

func (b Balance) String() string {
	return b.Big().String()
}

// Permill is a fraction in parts per million, as sp_arithmetic
// defines it. Values above OneMillion are invalid on chain.
type Permill uint32

// OneMillion is the Permill representing 100%.
const OneMillion Permill = 1_000_000

// PermillFromRational approximates n/d, rounding down. A zero
// denominator yields zero and n >= d saturates at 100%, matching how
// the proposal pallet computes vote ratios.
func PermillFromRational(n, d uint32) Permill {
	if d == 0 {
		return 0
	}
	if n >= d {
		return OneMillion
	}
	return Permill(uint64(n) * uint64(OneMillion) / uint64(d))
}

// Valid reports whether p lies within [0, 100%].
func (p Permill) Valid() bool {
	return p <= OneMillion
}

// Float64 returns p as a fraction in [0, 1].
func (p Permill) Float64() float64 {
	return float64(p) / float64(OneMillion)
}

func (p Permill) String() string {
	return fmt.Sprintf("%d.%04d%%", p/10_000, p%10_000)
}
