package tilecodec

// signedInt is the set of integer widths the tile format delta-encodes.
type signedInt interface {
	~int32 | ~int64
}

// DeltaEncode transforms x0, x1, ..., xn into x0, x1-x0, x2-x1, ..., the
// inverse of DeltaDecode. Node ids and decimicro coordinates fit in their
// declared widths by construction, and deltas are signed, so overflow
// cannot occur.
func DeltaEncode[T signedInt](values []T) []T {
	if len(values) == 0 {
		return nil
	}
	out := make([]T, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}
	return out
}

// DeltaDecode restores the original sequence from deltas via prefix-sum.
func DeltaDecode[T signedInt](deltas []T) []T {
	if len(deltas) == 0 {
		return nil
	}
	out := make([]T, len(deltas))
	out[0] = deltas[0]
	for i := 1; i < len(deltas); i++ {
		out[i] = out[i-1] + deltas[i]
	}
	return out
}
