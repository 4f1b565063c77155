// Package decoder turns the codewords of a PDF417 symbol into its payload:
// modulus 929 error correction followed by the compaction-mode parser.
package decoder

import (
	"fmt"
	"strings"
)

// modulus is the size of the prime field PDF417 codewords live in.
const modulus = 929

// field holds log and antilog tables of GF(929) for generator 3.
type field struct {
	exp [modulus]int
	log [modulus]int
}

var gf = newField(3)

func newField(generator int) *field {
	f := &field{}
	x := 1
	for i := range f.exp {
		f.exp[i] = x
		x = x * generator % modulus
	}
	for i := 0; i < modulus-1; i++ {
		f.log[f.exp[i]] = i
	}
	return f
}

func (f *field) add(a, b int) int { return (a + b) % modulus }

func (f *field) sub(a, b int) int { return (modulus + a - b) % modulus }

func (f *field) mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[(f.log[a]+f.log[b])%(modulus-1)]
}

// inv panics on 0, which has no inverse.
func (f *field) inv(a int) int {
	if a == 0 {
		panic("decoder: inverse of 0")
	}
	return f.exp[modulus-1-f.log[a]]
}

// poly is a polynomial over GF(929), highest degree coefficient first. Only
// the zero polynomial has a leading 0.
type poly []int

func newPoly(coefficients ...int) poly {
	i := 0
	for i < len(coefficients)-1 && coefficients[i] == 0 {
		i++
	}
	if len(coefficients) == 0 {
		return poly{0}
	}
	return append(poly(nil), coefficients[i:]...)
}

// monomial returns coefficient·x^degree.
func monomial(degree, coefficient int) poly {
	if coefficient == 0 {
		return poly{0}
	}
	p := make(poly, degree+1)
	p[0] = coefficient
	return p
}

func (p poly) degree() int { return len(p) - 1 }

func (p poly) isZero() bool { return p[0] == 0 }

// coef returns the coefficient of x^degree.
func (p poly) coef(degree int) int { return p[len(p)-1-degree] }

// eval evaluates p at a by Horner's rule.
func (p poly) eval(a int) int {
	if a == 0 {
		return p.coef(0)
	}
	result := 0
	for _, c := range p {
		result = gf.add(gf.mul(a, result), c)
	}
	return result
}

func (p poly) add(q poly) poly {
	if p.isZero() {
		return q
	}
	if q.isZero() {
		return p
	}
	if len(p) < len(q) {
		p, q = q, p
	}
	sum := append(poly(nil), p...)
	offset := len(p) - len(q)
	for i, c := range q {
		sum[offset+i] = gf.add(sum[offset+i], c)
	}
	return newPoly(sum...)
}

func (p poly) negate() poly {
	out := make(poly, len(p))
	for i, c := range p {
		out[i] = gf.sub(0, c)
	}
	return out
}

func (p poly) sub(q poly) poly {
	if q.isZero() {
		return p
	}
	return p.add(q.negate())
}

func (p poly) mul(q poly) poly {
	if p.isZero() || q.isZero() {
		return poly{0}
	}
	product := make([]int, len(p)+len(q)-1)
	for i, a := range p {
		for j, b := range q {
			product[i+j] = gf.add(product[i+j], gf.mul(a, b))
		}
	}
	return newPoly(product...)
}

// scale multiplies p by coefficient·x^degree.
func (p poly) scale(degree, coefficient int) poly {
	if coefficient == 0 {
		return poly{0}
	}
	out := make([]int, len(p)+degree)
	for i, c := range p {
		out[i] = gf.mul(c, coefficient)
	}
	return newPoly(out...)
}

func (p poly) String() string {
	var terms []string
	for d := p.degree(); d >= 0; d-- {
		c := p.coef(d)
		if c == 0 {
			continue
		}
		switch d {
		case 0:
			terms = append(terms, fmt.Sprint(c))
		case 1:
			terms = append(terms, fmt.Sprintf("%dx", c))
		default:
			terms = append(terms, fmt.Sprintf("%dx^%d", c, d))
		}
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, " + ")
}
