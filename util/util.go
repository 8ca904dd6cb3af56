package util

import (
	"golang.org/x/exp/constraints"
)

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

// CeilDiv divides rounding up. d must be positive.
func CeilDiv[A constraints.Integer](n A, d A) A {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
