package dtype

import "errors"

// ErrNoConcreteDType is returned by Promote when neither side carries a
// dtype. Elementwise operators require at least one array operand.
var ErrNoConcreteDType = errors.New("elementwise operators require at least one operand with a concrete dtype")

// PromotionRank orders dtypes for arithmetic promotion. Classes order
// strictly (bool < integer < float < complex); within a class the bit
// width breaks ties.
func PromotionRank(d DType) int {
	rank := 0
	switch {
	case d.IsBoolean():
		rank = 1000
	case d.IsInteger():
		rank = 2000
	case d.IsFloat():
		rank = 4000
	case d.IsComplex():
		rank = 8000
	}
	return rank + d.BitCount()
}

// Promote decides the dtype a mixed-type elementwise operation executes
// in. Invalid on either side means that operand is a bare host scalar,
// which never forces a promotion. When both ranks are equal the left
// operand wins.
//
// An integer result where the inputs disagree on signedness escalates to
// the next wider signed integer, saturating at int64. A fully generic
// weak-type lattice (as in jax) is deliberately not implemented.
func Promote(lhs, rhs DType) (DType, error) {
	if lhs == Invalid && rhs == Invalid {
		return Invalid, ErrNoConcreteDType
	}
	if lhs == Invalid {
		return rhs, nil
	}
	if rhs == Invalid {
		return lhs, nil
	}

	promoted := lhs
	if PromotionRank(lhs) < PromotionRank(rhs) {
		promoted = rhs
	}

	if lhs.IsInteger() && rhs.IsInteger() {
		if lhs.IsUnsigned() != rhs.IsUnsigned() {
			switch promoted {
			case Uint8, Int8:
				return Int16, nil
			case Uint16, Int16:
				return Int32, nil
			case Uint32, Int32:
				return Int64, nil
			default:
				// 64-bit mismatch saturates to the widest signed width.
				return Int64, nil
			}
		}
	}

	return promoted, nil
}
