package decoder

import (
	"fmt"

	"github.com/ericlevine/zxcore"
)

var (
	// ErrChecksum reports codewords error correction could not repair. It
	// matches zxcore.ErrChecksum under errors.Is.
	ErrChecksum = fmt.Errorf("pdf417: uncorrectable codewords: %w", zxcore.ErrChecksum)
	// ErrFormat reports a codeword stream that violates the PDF417 syntax.
	// It matches zxcore.ErrFormat under errors.Is.
	ErrFormat = fmt.Errorf("pdf417: malformed codeword stream: %w", zxcore.ErrFormat)
)

// CorrectErrors repairs received in place. The last numEC codewords are the
// Reed-Solomon check codewords, whose generator has roots 3^1..3^numEC. It
// returns the number of codewords changed.
func CorrectErrors(received []int, numEC int) (int, error) {
	if numEC < 1 || numEC >= len(received) {
		return 0, fmt.Errorf("%d error correction codewords for %d codewords: %w", numEC, len(received), ErrChecksum)
	}
	p := newPoly(received...)
	syndromes := make([]int, numEC)
	clean := true
	for i := numEC; i > 0; i-- {
		s := p.eval(gf.exp[i])
		syndromes[numEC-i] = s
		if s != 0 {
			clean = false
		}
	}
	if clean {
		return 0, nil
	}

	sigma, omega, err := euclid(monomial(numEC, 1), newPoly(syndromes...), numEC)
	if err != nil {
		return 0, err
	}
	locations, err := errorLocations(sigma)
	if err != nil {
		return 0, err
	}
	magnitudes := errorMagnitudes(omega, sigma, locations)
	for i, loc := range locations {
		position := len(received) - 1 - gf.log[loc]
		if position < 0 {
			return 0, fmt.Errorf("error location %d outside %d codewords: %w", position, len(received), ErrChecksum)
		}
		received[position] = gf.sub(received[position], magnitudes[i])
	}
	return len(locations), nil
}

// euclid runs the extended Euclidean algorithm on a and b until the
// remainder has degree below r/2, yielding the error locator sigma and the
// error evaluator omega.
func euclid(a, b poly, r int) (sigma, omega poly, err error) {
	if a.degree() < b.degree() {
		a, b = b, a
	}
	rLast, rCur := a, b
	tLast, tCur := poly{0}, poly{1}

	for rCur.degree() >= r/2 {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = rCur, tCur
		if rLast.isZero() {
			return nil, nil, ErrChecksum
		}
		rCur = rLastLast
		q := poly{0}
		dltInverse := gf.inv(rLast.coef(rLast.degree()))
		for rCur.degree() >= rLast.degree() && !rCur.isZero() {
			diff := rCur.degree() - rLast.degree()
			scale := gf.mul(rCur.coef(rCur.degree()), dltInverse)
			q = q.add(monomial(diff, scale))
			rCur = rCur.sub(rLast.scale(diff, scale))
		}
		tCur = q.mul(tLast).sub(tLastLast).negate()
	}

	sigmaAtZero := tCur.coef(0)
	if sigmaAtZero == 0 {
		return nil, nil, ErrChecksum
	}
	inverse := gf.inv(sigmaAtZero)
	return tCur.scale(0, inverse), rCur.scale(0, inverse), nil
}

// errorLocations finds the roots of the error locator by trying every field
// element, and returns their inverses.
func errorLocations(locator poly) ([]int, error) {
	n := locator.degree()
	out := make([]int, 0, n)
	for i := 1; i < modulus && len(out) < n; i++ {
		if locator.eval(i) == 0 {
			out = append(out, gf.inv(i))
		}
	}
	if len(out) != n {
		return nil, fmt.Errorf("locator of degree %d has %d roots: %w", n, len(out), ErrChecksum)
	}
	return out, nil
}

// errorMagnitudes applies Forney's formula.
func errorMagnitudes(evaluator, locator poly, locations []int) []int {
	d := locator.degree()
	if d < 1 {
		return nil
	}
	derivative := make([]int, d)
	for i := 1; i <= d; i++ {
		derivative[d-i] = gf.mul(i, locator.coef(i))
	}
	formal := newPoly(derivative...)

	out := make([]int, len(locations))
	for i, loc := range locations {
		xiInverse := gf.inv(loc)
		numerator := gf.sub(0, evaluator.eval(xiInverse))
		denominator := gf.inv(formal.eval(xiInverse))
		out[i] = gf.mul(numerator, denominator)
	}
	return out
}
