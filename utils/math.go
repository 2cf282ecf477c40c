package utils

import (
	"math"
)

// IPow is an integer power for small non-negative exponents
func IPow(base, p int) (y int) {
	y = 1
	for i := 0; i < p; i++ {
		y *= base
	}
	return
}

// SnapToUnit replaces values within eps of 0 or 1 with exactly 0 or 1
func SnapToUnit(val, eps float64) float64 {
	if math.Abs(val-1.) < eps {
		val = 1.
	}
	if math.Abs(val) < eps {
		val = 0.
	}
	return val
}

// Factorial for the derivative orders used by the polynomial evaluators
func Factorial(n int) (f float64) {
	f = 1
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return
}
