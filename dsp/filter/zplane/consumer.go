package zplane

// Consumer receives transfer-function coefficients (descending powers,
// numerator b and denominator a) after every edit. Both the response plot
// and the live filter implement it.
//
// Consumers are called with the editor lock held and must not call back
// into the editor. The slices are copies owned by the consumer.
type Consumer interface {
	SetCoefficients(b, a []float64) error
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc func(b, a []float64) error

// SetCoefficients calls f(b, a).
func (f ConsumerFunc) SetCoefficients(b, a []float64) error {
	return f(b, a)
}
