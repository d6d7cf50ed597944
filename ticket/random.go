package ticket

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mathrand "math/rand"
)

// Random is the source of randomness used by the Generator.
// *math/rand.Rand satisfies it.
type Random interface {
	// Intn returns a uniform value in [0, n)
	Intn(n int) int
	// Shuffle randomizes the order of n elements using swap
	Shuffle(n int, swap func(i, j int))
}

type cryptoRandom struct{}

// NewCryptoRandom returns a Random backed by crypto/rand. It is safe for
// concurrent use.
func NewCryptoRandom() Random {
	return cryptoRandom{}
}

func (cryptoRandom) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("ticket: invalid argument to Intn: %d", n))
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("ticket: random source unavailable: %v", err))
	}
	return int(v.Int64())
}

// Shuffle is a Fisher-Yates shuffle over Intn
func (r cryptoRandom) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, r.Intn(i+1))
	}
}

// NewSeededRandom returns a deterministic Random for reproducible tests and
// tooling. The result must not be shared between goroutines.
func NewSeededRandom(seed int64) Random {
	return mathrand.New(mathrand.NewSource(seed))
}
