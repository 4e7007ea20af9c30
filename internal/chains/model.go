package chains

import (
	"fmt"

	"github.com/san-kum/polysim/internal/thermo"
)

// Model is a chain model with every ensemble variant it supports.
type Model interface {
	Kind() Kind
	Chain() thermo.Chain
	Parameters() Parameters
	// Isotensional returns the named variant, or the most accurate one
	// for Auto.
	Isotensional(v Variant) (thermo.IsotensionalView, error)
	Isometric(v Variant) (thermo.IsometricView, error)
	Variants(e Ensemble) []Variant
	// Preferred names the variant Auto resolves to.
	Preferred(e Ensemble) Variant
	Distribution() *Distribution
}

// New builds a model of the given kind.
func New(kind Kind, c thermo.Chain, p Parameters) (Model, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := p.validate(kind); err != nil {
		return nil, err
	}
	switch kind {
	case KindIdeal:
		return NewIdeal(c)
	case KindFJC:
		return NewFJC(c)
	case KindEFJC:
		return NewEFJC(c, p.LinkStiffness)
	case KindSWFJC:
		return NewSWFJC(c, p.WellWidth)
	case KindWLC:
		return NewWLC(c, p.PersistenceLength)
	case KindHarmonicFJC:
		return NewUFJC(c, NewHarmonic(p.LinkStiffness))
	case KindMorseFJC:
		morse, err := NewMorse(p.LinkStiffness, p.LinkEnergy)
		if err != nil {
			return nil, err
		}
		return NewUFJC(c, morse)
	case KindLJFJC:
		return NewUFJC(c, NewLennardJones(p.LinkStiffness))
	case KindLogSqFJC:
		return NewUFJC(c, NewLogSquared(p.LinkStiffness))
	}
	return nil, fmt.Errorf("%w: %s", thermo.ErrUnknownModel, kind)
}

// base carries the variant tables shared by every model.
type base struct {
	kind         Kind
	chain        thermo.Chain
	params       Parameters
	isotensional map[Variant]thermo.IsotensionalView
	isometric    map[Variant]thermo.IsometricView
	preferred    map[Ensemble]Variant
	distribution *Distribution
}

func newBase(kind Kind, c thermo.Chain, p Parameters) base {
	return base{
		kind:         kind,
		chain:        c,
		params:       p,
		isotensional: make(map[Variant]thermo.IsotensionalView),
		isometric:    make(map[Variant]thermo.IsometricView),
		preferred:    make(map[Ensemble]Variant),
	}
}

func (b *base) addIsotensional(v Variant, core thermo.Isotensional) {
	b.isotensional[v] = thermo.NewIsotensionalView(b.chain, core)
	if _, ok := b.preferred[Isotensional]; !ok {
		b.preferred[Isotensional] = v
	}
}

func (b *base) addIsometric(v Variant, core thermo.Isometric) {
	b.isometric[v] = thermo.NewIsometricView(b.chain, core)
	if _, ok := b.preferred[Isometric]; !ok {
		b.preferred[Isometric] = v
	}
}

// distribute normalizes the distribution over the preferred isometric variant.
func (b *base) distribute(upper float64) error {
	view := b.isometric[b.preferred[Isometric]]
	d, err := NewDistribution(b.chain, view.Core(), upper)
	if err != nil {
		return fmt.Errorf("%s distribution: %w", b.kind, err)
	}
	b.distribution = d
	return nil
}

func (b *base) Kind() Kind                  { return b.kind }
func (b *base) Chain() thermo.Chain         { return b.chain }
func (b *base) Parameters() Parameters      { return b.params }
func (b *base) Distribution() *Distribution { return b.distribution }

func (b *base) Isotensional(v Variant) (thermo.IsotensionalView, error) {
	if v == Auto {
		v = b.preferred[Isotensional]
	}
	view, ok := b.isotensional[v]
	if !ok {
		return thermo.IsotensionalView{}, fmt.Errorf("%w: %s has no %s isotensional variant",
			thermo.ErrUnknownModel, b.kind, v)
	}
	return view, nil
}

func (b *base) Isometric(v Variant) (thermo.IsometricView, error) {
	if v == Auto {
		v = b.preferred[Isometric]
	}
	view, ok := b.isometric[v]
	if !ok {
		return thermo.IsometricView{}, fmt.Errorf("%w: %s has no %s isometric variant",
			thermo.ErrUnknownModel, b.kind, v)
	}
	return view, nil
}

func (b *base) Preferred(e Ensemble) Variant { return b.preferred[e] }

func (b *base) Variants(e Ensemble) []Variant {
	if e == Isometric {
		return sortedVariants(b.isometric)
	}
	return sortedVariants(b.isotensional)
}
