package ticket

import (
	"fmt"
	"sort"
	"sync"
)

// Generator builds tickets from a Random source. A Generator is as safe for
// concurrent use as its Random.
type Generator struct {
	rnd Random
}

// NewGenerator creates a generator drawing from rnd
func NewGenerator(rnd Random) *Generator {
	return &Generator{rnd: rnd}
}

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
)

func shared() *Generator {
	defaultGeneratorOnce.Do(func() {
		defaultGenerator = NewGenerator(NewCryptoRandom())
	})
	return defaultGenerator
}

// Generate builds a ticket with the shared crypto-backed generator
func Generate() Ticket {
	return shared().Generate()
}

// Reconstruct lays out stored numbers with the shared generator, see
// Generator.Reconstruct.
func Reconstruct(numbers []int) (Ticket, bool) {
	return shared().Reconstruct(numbers)
}

// Generate builds a new ticket. Numbers are chosen per column first, then
// placed into rows. It panics if the result breaks a ticket invariant, which
// means the algorithm itself is broken.
func (g *Generator) Generate() Ticket {
	columns := g.pickNumbers()
	g.normalize(&columns)

	grid, err := placeRows(columns)
	if err == nil {
		err = grid.Check()
	}
	if err != nil {
		panic(fmt.Errorf("ticket: generated grid failed self-check: %w", err))
	}

	return Ticket{Grid: grid, Numbers: grid.Numbers()}
}

// Reconstruct turns a stored flat list back into a ticket. When the list is
// not a valid ticket it cannot be laid out faithfully, so a brand-new ticket
// is generated instead and the second return value is true. The returned
// numbers then differ from the input.
func (g *Generator) Reconstruct(numbers []int) (Ticket, bool) {
	if Validate(numbers).Valid {
		if grid, err := Layout(numbers); err == nil {
			return Ticket{Grid: grid, Numbers: grid.Numbers()}, false
		}
	}
	return g.Generate(), true
}

// pickNumbers sweeps the columns left to right, adding a random batch of one
// or two unused numbers to each column with room until 15 are chosen.
func (g *Generator) pickNumbers() [Columns][]int {
	var columns [Columns][]int
	total := 0

	for total < NumbersPerTicket {
		for c := 0; c < Columns && total < NumbersPerTicket; c++ {
			room := MaxPerColumn - len(columns[c])
			if room == 0 {
				continue
			}
			batch := min(1+g.rnd.Intn(2), room, NumbersPerTicket-total)
			columns[c] = g.draw(c, columns[c], batch)
			total += batch
		}
	}

	return columns
}

// normalize brings the selection to exactly 15 numbers, adding single numbers
// to columns with room or dropping the largest number of a column.
func (g *Generator) normalize(columns *[Columns][]int) {
	total := 0
	for _, col := range columns {
		total += len(col)
	}

	for total < NumbersPerTicket {
		added := false
		for c := 0; c < Columns && total < NumbersPerTicket; c++ {
			if len(columns[c]) >= MaxPerColumn || len(columns[c]) >= columnRanges[c].Size() {
				continue
			}
			columns[c] = g.draw(c, columns[c], 1)
			total++
			added = true
		}
		if !added {
			panic(fmt.Errorf("ticket: cannot reach %d numbers: %w", NumbersPerTicket, ErrInvalidGrid))
		}
	}

	for total > NumbersPerTicket {
		for c := Columns - 1; c >= 0 && total > NumbersPerTicket; c-- {
			if len(columns[c]) == 0 {
				continue
			}
			columns[c] = columns[c][:len(columns[c])-1]
			total--
		}
	}
}

// draw adds count distinct unused numbers from column c to chosen and
// returns the column sorted ascending.
func (g *Generator) draw(c int, chosen []int, count int) []int {
	r := columnRanges[c]

	taken := make(map[int]bool, len(chosen))
	for _, n := range chosen {
		taken[n] = true
	}

	available := make([]int, 0, r.Size())
	for n := r.Min; n <= r.Max; n++ {
		if !taken[n] {
			available = append(available, n)
		}
	}

	g.rnd.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	chosen = append(chosen, available[:count]...)
	sort.Ints(chosen)
	return chosen
}
