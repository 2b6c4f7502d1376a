package generator

import (
	"math"
	"strconv"

	"github.com/mcncl/json2struct/internal/tokenizer"
)

// IsValidNumberType reports whether t names a Rust integer or float type.
func IsValidNumberType(t string) bool {
	switch t {
	case "i8", "i16", "i32", "i64", "i128",
		"u8", "u16", "u32", "u64", "u128",
		"f32", "f64":
		return true
	}
	return false
}

func validIntegerBits(bits int) bool {
	switch bits {
	case 8, 16, 32, 64, 128:
		return true
	}
	return false
}

func validFloatBits(bits int) bool {
	return bits == 32 || bits == 64
}

// CalculateBitSize returns the narrowest standard integer width able to hold
// num, never narrower than defaultBits. An invalid defaultBits is replaced by
// 32. Integers outside the safe range, and non-integers, always get 64.
func CalculateBitSize(num float64, defaultBits int, unsigned bool) int {
	if !validIntegerBits(defaultBits) {
		defaultBits = 32
	}
	if math.IsNaN(num) || math.IsInf(num, 0) || num != math.Trunc(num) {
		return 64
	}
	if math.Abs(num) > tokenizer.MaxSafeInteger {
		return 64
	}

	var minimum int
	if unsigned && num >= 0 {
		switch {
		case num <= math.MaxUint8:
			minimum = 8
		case num <= math.MaxUint16:
			minimum = 16
		case num <= math.MaxUint32:
			minimum = 32
		default:
			minimum = 64
		}
	} else {
		switch {
		case num >= math.MinInt8 && num <= math.MaxInt8:
			minimum = 8
		case num >= math.MinInt16 && num <= math.MaxInt16:
			minimum = 16
		case num >= math.MinInt32 && num <= math.MaxInt32:
			minimum = 32
		default:
			minimum = 64
		}
	}

	return max(minimum, defaultBits)
}

// NumberType returns the Rust numeric type for a concrete JSON number.
func NumberType(num float64, opts RustOptions) string {
	var t string
	switch {
	case math.IsNaN(num):
		t = "i" + strconv.Itoa(opts.integerBits())
	case math.IsInf(num, 0) || num != math.Trunc(num):
		bits := 64
		if math.Abs(num) <= tokenizer.MaxSafeInteger {
			bits = 32
		}
		if validFloatBits(opts.FloatBitSize) {
			bits = max(bits, opts.FloatBitSize)
		}
		t = "f" + strconv.Itoa(bits)
	default:
		unsigned := opts.Unsigned && num >= 0
		t = integerPrefix(unsigned) + strconv.Itoa(CalculateBitSize(num, opts.IntegerBitSize, unsigned))
	}

	if IsValidNumberType(t) {
		return t
	}
	return "i32"
}

func integerPrefix(unsigned bool) string {
	if unsigned {
		return "u"
	}
	return "i"
}
