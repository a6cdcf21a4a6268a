package fec

// gf32 implements arithmetic over GF(2^5), the field underlying the block
// code used to decode the AACH (see reedmuller.go). The field is generated
// by the primitive polynomial x^5+x^2+1 (0b100101), a standard choice for
// degree-5 extension fields.
const gf32PrimPoly = 0b100101

// gf32Antilog[i] = alpha^i; gf32Log[alpha^i] = i, gf32Log[0] is unused (-1).
// Built by a variable initializer rather than init() so that they are ready
// before rmGenerator and rmSyndromeTable are computed from them.
var gf32Antilog, gf32Log = buildGF32Tables()

func buildGF32Tables() (antilog [31]int, log [32]int) {
	reg := 1
	for i := 0; i < 31; i++ {
		antilog[i] = reg
		log[reg] = i
		reg <<= 1
		if reg&0x20 != 0 {
			reg ^= gf32PrimPoly
		}
	}
	log[0] = -1
	return antilog, log
}

func gf32Mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return gf32Antilog[(gf32Log[a]+gf32Log[b])%31]
}

// gf32Pow returns alpha^(exp*n) where alpha^exp == a.
func gf32Pow(a, n int) int {
	if a == 0 {
		return 0
	}
	e := (gf32Log[a] * n) % 31
	if e < 0 {
		e += 31
	}
	return gf32Antilog[e]
}

// gf32PolyMul multiplies two polynomials with GF(32) coefficients, given
// low-degree-first, using field addition (XOR) and multiplication.
func gf32PolyMul(a, b []int) []int {
	result := make([]int, len(a)+len(b)-1)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			if bj == 0 {
				continue
			}
			result[i+j] ^= gf32Mul(ai, bj)
		}
	}
	return result
}

// cosetOf returns the cyclotomic coset of s modulo 31 under repeated
// squaring (the field has 2^5=32 elements, so the coset closes after 5 steps).
func cosetOf(s int) []int {
	seen := map[int]bool{}
	var result []int
	v := s % 31
	for !seen[v] {
		seen[v] = true
		result = append(result, v)
		v = (v * 2) % 31
	}
	return result
}

// minimalPolynomial returns the GF(2) minimal polynomial (low-degree-first
// bits) of alpha^s, computed as the product of (x + alpha^i) over the
// cyclotomic coset of s. The result is guaranteed by Galois theory to have
// coefficients fixed by the Frobenius automorphism, i.e. in {0,1}.
func minimalPolynomial(s int) []int {
	poly := []int{1}
	for _, i := range cosetOf(s) {
		factor := []int{gf32Antilog[i], 1}
		poly = gf32PolyMul(poly, factor)
	}
	bits := make([]int, len(poly))
	for i, c := range poly {
		if c != 0 {
			bits[i] = 1
		}
	}
	return bits
}
