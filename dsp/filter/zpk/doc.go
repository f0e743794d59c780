// Package zpk converts between the zero/pole/gain and transfer-function
// representations of a discrete-time filter.
//
// [ToTransferFunction] expands monic root polynomials into numerator and
// denominator coefficients (descending powers of z). [FromTransferFunction]
// recovers zeros, poles and gain through polynomial root finding. The two are
// approximate inverses of each other for conjugate-symmetric root sets.
//
// [EnforceConjugates] completes a root set with the missing conjugates of its
// complex members so the derived coefficients are real. [Analyzer] and
// [FrequencyResponse] evaluate H(e^jw) for display.
package zpk
