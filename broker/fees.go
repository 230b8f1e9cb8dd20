package broker

// FeePolicy computes the fee charged on the taker-consumed portion of an
// order (AMM pre-fill plus book crossing). The fee is denominated in the
// order's proceeds token and deducted before payout; resting makers pay no
// fee on claim.
type FeePolicy interface {
	TakerFee(pair Pair, proceeds Uint) Uint
}

const bpsDenominator = 10_000

// BasisPointsFee charges a flat fraction of the taker proceeds.
type BasisPointsFee struct {
	Bps uint32
}

func (f BasisPointsFee) TakerFee(_ Pair, proceeds Uint) Uint {
	if f.Bps == 0 || proceeds.IsZero() {
		return NewZeroUint()
	}
	return proceeds.Mul64(uint64(f.Bps)).Div64(bpsDenominator)
}
