package chains

import (
	"fmt"
	"sort"

	"github.com/san-kum/polysim/internal/thermo"
)

// Kind is the closed set of chain models.
type Kind string

const (
	KindIdeal       Kind = "ideal"
	KindFJC         Kind = "fjc"
	KindEFJC        Kind = "efjc"
	KindSWFJC       Kind = "swfjc"
	KindWLC         Kind = "wlc"
	KindHarmonicFJC Kind = "harmonic-fjc"
	KindMorseFJC    Kind = "morse-fjc"
	KindLJFJC       Kind = "lj-fjc"
	KindLogSqFJC    Kind = "log-squared-fjc"
)

// Kinds lists every model in a stable order.
func Kinds() []Kind {
	return []Kind{KindIdeal, KindFJC, KindEFJC, KindSWFJC, KindWLC,
		KindHarmonicFJC, KindMorseFJC, KindLJFJC, KindLogSqFJC}
}

func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %s", thermo.ErrUnknownModel, name)
}

// Variant names one approximation of an ensemble.
type Variant string

const (
	// Auto selects the variant a model prefers.
	Auto       Variant = ""
	Exact      Variant = "exact"
	Asymptotic Variant = "asymptotic"
	Reduced    Variant = "reduced"
	Legendre   Variant = "legendre"
)

// Ensemble selects the control variable.
type Ensemble string

const (
	Isotensional Ensemble = "isotensional"
	Isometric    Ensemble = "isometric"
)

// Parameters are the nondimensional potential parameters. Only the
// fields a kind uses are read and validated.
type Parameters struct {
	LinkStiffness     float64 `yaml:"link_stiffness" json:"link_stiffness"`         // k l^2 / kT
	WellWidth         float64 `yaml:"well_width" json:"well_width"`                 // w / l
	PersistenceLength float64 `yaml:"persistence_length" json:"persistence_length"` // lp / l
	LinkEnergy        float64 `yaml:"link_energy" json:"link_energy"`               // epsilon / kT
}

// Required lists the parameters a kind reads.
func (k Kind) Required() []string {
	switch k {
	case KindEFJC, KindHarmonicFJC, KindLJFJC, KindLogSqFJC:
		return []string{"link_stiffness"}
	case KindMorseFJC:
		return []string{"link_stiffness", "link_energy"}
	case KindSWFJC:
		return []string{"well_width"}
	case KindWLC:
		return []string{"persistence_length"}
	default:
		return nil
	}
}

func (p Parameters) validate(k Kind) error {
	values := map[string]float64{
		"link_stiffness":     p.LinkStiffness,
		"well_width":         p.WellWidth,
		"persistence_length": p.PersistenceLength,
		"link_energy":        p.LinkEnergy,
	}
	for _, name := range k.Required() {
		if err := thermo.Positive(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

// Set assigns a parameter by its yaml name.
func (p *Parameters) Set(name string, value float64) error {
	switch name {
	case "link_stiffness":
		p.LinkStiffness = value
	case "well_width":
		p.WellWidth = value
	case "persistence_length":
		p.PersistenceLength = value
	case "link_energy":
		p.LinkEnergy = value
	default:
		return fmt.Errorf("%w: parameter %q", thermo.ErrInvalidParameter, name)
	}
	return nil
}

func sortedVariants[V any](m map[Variant]V) []Variant {
	out := make([]Variant, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
