package chains

import (
	"github.com/san-kum/polysim/internal/thermo"
)

// FJC is the freely jointed chain. The isotensional ensemble is exact for
// any N; the isometric ensemble is exact through the Treloar density when
// N >= 2 and falls back to the Legendre transformation otherwise.
type FJC struct {
	base
	exact *treloar
}

func NewFJC(c thermo.Chain) (*FJC, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	n := c.N()
	m := &FJC{base: newBase(KindFJC, c, Parameters{})}
	m.addIsotensional(Exact, langevinIsotensional{n: n})
	if c.NumberOfLinks >= 2 {
		t, err := newTreloar(int(c.NumberOfLinks))
		if err != nil {
			return nil, err
		}
		m.exact = &t
		m.addIsometric(Exact, t)
	}
	m.addIsometric(Legendre, langevinIsometric{n: n})
	m.addIsometric(Asymptotic, gaussianIsometric{n: n})
	if err := m.distribute(1); err != nil {
		return nil, err
	}
	return m, nil
}

// LogDensity is the log of the exact end-to-end density. It reports
// ErrInvalidParameter for single-link chains.
func (m *FJC) LogDensity(gamma float64) (float64, error) {
	if m.exact == nil {
		return 0, &thermo.ParameterError{Name: "number_of_links", Value: m.chain.N()}
	}
	return m.exact.LogDensity(gamma)
}
