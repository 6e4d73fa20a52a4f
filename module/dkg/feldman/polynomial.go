package feldman

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	ed "filippo.io/edwards25519"
	"github.com/pkg/errors"
)

// polynomial is a secret polynomial f(X) = a₀ + a₁⋅X + … + aₜ⋅Xᵗ together with
// its public commitments Aᵢ = aᵢ•G.
type polynomial struct {
	coefficients []*ed.Scalar
	commitments  []*ed.Point
}

// randomPolynomial samples a polynomial of the given degree with uniformly
// random coefficients.
func randomPolynomial(degree int, rng io.Reader) (*polynomial, error) {
	if rng == nil {
		rng = rand.Reader
	}
	p := &polynomial{
		coefficients: make([]*ed.Scalar, degree+1),
		commitments:  make([]*ed.Point, degree+1),
	}
	for i := 0; i <= degree; i++ {
		c, err := randomScalar(rng)
		if err != nil {
			return nil, err
		}
		p.coefficients[i] = c
		p.commitments[i] = new(ed.Point).ScalarBaseMult(c)
	}
	return p, nil
}

// evaluate returns f(x) using Horner's method.
func (p *polynomial) evaluate(x *ed.Scalar) *ed.Scalar {
	result := ed.NewScalar()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result.MultiplyAdd(result, x, p.coefficients[i])
	}
	return result
}

// evaluateCommitments returns F(x) = A₀ + A₁⋅x + … + Aₜ⋅xᵗ, which equals
// f(x)•G for the polynomial the commitments belong to.
func evaluateCommitments(commitments []*ed.Point, x *ed.Scalar) *ed.Point {
	result := new(ed.Point).Set(commitments[len(commitments)-1])
	for i := len(commitments) - 2; i >= 0; i-- {
		result = result.ScalarMult(x, result).Add(result, commitments[i])
	}
	return result
}

func randomScalar(rng io.Reader) (*ed.Scalar, error) {
	seed := make([]byte, 64)
	_, err := io.ReadFull(rng, seed)
	if err != nil {
		return nil, errors.WithMessage(err, "could not read randomness")
	}
	s, err := ed.NewScalar().SetUniformBytes(seed)
	if err != nil {
		return nil, errors.WithMessage(err, "could not derive scalar")
	}
	return s, nil
}

// evaluationPoint returns the x-coordinate of the participant at index, which
// is index+1 so that no participant is evaluated at zero.
func evaluationPoint(index int) *ed.Scalar {
	var b [32]byte
	binary.LittleEndian.PutUint32(b[:4], uint32(index+1))
	x, err := ed.NewScalar().SetCanonicalBytes(b[:])
	if err != nil {
		// small integers are always canonical
		panic(err)
	}
	return x
}

func decodePoint(b []byte) (*ed.Point, error) {
	p, err := new(ed.Point).SetBytes(b)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid point encoding")
	}
	return p, nil
}

func decodeScalar(b []byte) (*ed.Scalar, error) {
	if len(b) != 32 {
		return nil, errors.Errorf("invalid scalar length %d", len(b))
	}
	s, err := ed.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid scalar encoding")
	}
	return s, nil
}
