package broker

import (
	"encoding/binary"
	"encoding/json"
	"math/big"

	"lukechampine.com/uint128"
)

// uintMaxValue is the max possible value of the Uint.
var uintMaxValue = Uint{uint128.Max}

// Uint is an unsigned 128-bit integer used for all token amounts and prices.
// Amounts are expressed in minimal token units, prices in quote minimal units
// per whole base token.
type Uint struct {
	v uint128.Uint128
}

func NewZeroUint() Uint {
	return Uint{}
}

func NewMaxUint() Uint {
	return Uint{uint128.Max}
}

func NewUint(u uint64) Uint {
	return Uint{v: uint128.From64(u)}
}

func NewUintFromStr(v string) (Uint, error) {
	u, err := uint128.FromString(v)
	if err != nil {
		return Uint{}, err
	}

	return Uint{v: u}, nil
}

// NewUintFromBig converts a big.Int to Uint. The second return value is false
// when the argument is negative or does not fit into 128 bits.
func NewUintFromBig(i *big.Int) (Uint, bool) {
	if i.Sign() < 0 || i.BitLen() > 128 {
		return Uint{}, false
	}
	return Uint{v: uint128.FromBig(i)}, true
}

// NewUintFromBytes restores a Uint from its big-endian 16-byte form.
func NewUintFromBytes(b []byte) Uint {
	if len(b) != 16 {
		return Uint{}
	}
	return Uint{v: uint128.New(
		binary.BigEndian.Uint64(b[8:]),
		binary.BigEndian.Uint64(b[:8]),
	)}
}

// Bytes returns the big-endian 16-byte form of the Uint.
// Big-endian keeps lexicographic and numeric ordering aligned, which the
// storage layer relies on for price-ordered iteration.
func (u Uint) Bytes() []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[:8], u.v.Hi)
	binary.BigEndian.PutUint64(b[8:], u.v.Lo)
	return b
}

// Big returns the value as a big.Int.
func (u Uint) Big() *big.Int {
	return u.v.Big()
}

func (u Uint) Add(v Uint) Uint {
	u.v = u.v.Add(v.v)
	return u
}

func (u Uint) Add64(v uint64) Uint {
	u.v = u.v.Add64(v)
	return u
}

func (u Uint) Sub(v Uint) Uint {
	u.v = u.v.Sub(v.v)
	return u
}

func (u Uint) Mul(v Uint) Uint {
	u.v = u.v.Mul(v.v)
	return u
}

func (u Uint) Mul64(v uint64) Uint {
	u.v = u.v.Mul64(v)
	return u
}

func (u Uint) QuoRem(v Uint) (Uint, Uint) {
	var remainder uint128.Uint128
	u.v, remainder = u.v.QuoRem(v.v)
	return u, Uint{v: remainder}
}

func (u Uint) Div(v Uint) Uint {
	u.v = u.v.Div(v.v)
	return u
}

func (u Uint) Div64(v uint64) Uint {
	u.v = u.v.Div64(v)
	return u
}

// MulDiv returns u*m/d rounded down, computing the intermediate product with
// arbitrary precision so it cannot overflow 128 bits.
func (u Uint) MulDiv(m Uint, d Uint) Uint {
	if d.IsZero() {
		panic("division by zero")
	}
	p := new(big.Int).Mul(u.Big(), m.Big())
	p.Quo(p, d.Big())
	r, ok := NewUintFromBig(p)
	if !ok {
		panic("mul-div overflows 128 bits")
	}
	return r
}

func (u Uint) Cmp(v Uint) int {
	return u.v.Cmp(v.v)
}

func (u Uint) IsZero() bool {
	return u.v.IsZero()
}

func (u Uint) IsMax() bool {
	return u.Equals(uintMaxValue)
}

func (u Uint) Equals(v Uint) bool {
	return u.v.Equals(v.v)
}

func (u Uint) Equals64(v uint64) bool {
	return u.v.Equals64(v)
}

func (u Uint) LessThan(v Uint) bool {
	return u.v.Cmp(v.v) < 0
}

func (u Uint) LessThanOrEqualTo(v Uint) bool {
	return u.v.Cmp(v.v) <= 0
}

func (u Uint) GreaterThan(v Uint) bool {
	return u.v.Cmp(v.v) > 0
}

func (u Uint) GreaterThanOrEqualTo(v Uint) bool {
	return u.v.Cmp(v.v) >= 0
}

func (u Uint) String() string {
	return u.v.String()
}

// Pow10 returns 10^n as a Uint. Panics when the result does not fit,
// which cannot happen for any valid token decimals value (n <= 38).
func Pow10(n uint8) Uint {
	r := NewUint(1)
	for i := uint8(0); i < n; i++ {
		r = r.Mul64(10)
	}
	return r
}

func Min(a Uint, b Uint) Uint {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func Max(a Uint, b Uint) Uint {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// ---------------------JSON---------------------

var (
	_ json.Marshaler   = Uint{}
	_ json.Unmarshaler = &Uint{}
)

func (u Uint) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

func (u *Uint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	u128, err := uint128.FromString(s)
	if err != nil {
		return err
	}

	u.v = u128

	return nil
}
