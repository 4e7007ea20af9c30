package viz

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/san-kum/polysim/internal/chains"
	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/sweep"
	"github.com/san-kum/polysim/internal/thermo"
)

var modelInfo = map[chains.Kind]string{
	chains.KindIdeal:       "gaussian-limit random walk",
	chains.KindFJC:         "rigid freely jointed links",
	chains.KindEFJC:        "harmonic extensible links",
	chains.KindSWFJC:       "square-well links",
	chains.KindWLC:         "worm-like bending chain",
	chains.KindHarmonicFJC: "harmonic link potential",
	chains.KindMorseFJC:    "breakable morse links",
	chains.KindLJFJC:       "lennard-jones links",
	chains.KindLogSqFJC:    "log-squared links",
}

const (
	stateMenu = iota
	stateConfig
	stateExplore
)

const curvePoints = 96

type field struct {
	name  string
	value float64
}

// Explorer steps a chain model through force or extension and shows
// every observable at the current point.
type Explorer struct {
	state  int
	theme  Theme
	cfg    config.Config
	kinds  []chains.Kind
	cursor int

	fields      []field
	fieldCursor int
	editing     bool
	editBuf     string

	model    chains.Model
	ensemble chains.Ensemble
	variants []chains.Variant
	variant  int
	x        float64
	curveX   []float64
	curveY   []float64
	err      error

	width, height int
}

func NewExplorer(cfg *config.Config) *Explorer {
	e := &Explorer{
		state:    stateMenu,
		theme:    ThemeLab,
		cfg:      *cfg,
		kinds:    chains.Kinds(),
		ensemble: chains.Isotensional,
		width:    80,
		height:   24,
	}
	for i, k := range e.kinds {
		if string(k) == cfg.Model {
			e.cursor = i
		}
	}
	return e
}

func (e *Explorer) Init() tea.Cmd { return nil }

func (e *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return e.handleKey(msg)
	case tea.WindowSizeMsg:
		e.width, e.height = msg.Width, msg.Height
	}
	return e, nil
}

func (e *Explorer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return e, tea.Quit
	}
	if msg.String() == "t" && !e.editing {
		e.theme = e.theme.Next()
		return e, nil
	}
	switch e.state {
	case stateMenu:
		return e.menuKey(msg)
	case stateConfig:
		return e.configKey(msg)
	case stateExplore:
		return e.exploreKey(msg)
	}
	return e, nil
}

func (e *Explorer) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return e, tea.Quit
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
	case "down", "j":
		if e.cursor < len(e.kinds)-1 {
			e.cursor++
		}
	case "enter", " ":
		e.selectKind(e.kinds[e.cursor])
	}
	return e, nil
}

// selectKind fills the editable fields, keeping configured values and
// falling back to the first preset of the kind.
func (e *Explorer) selectKind(kind chains.Kind) {
	if e.cfg.Model != string(kind) {
		if names := config.ListPresets(string(kind)); len(names) > 0 {
			preset := config.GetPreset(string(kind), names[0])
			e.cfg.Potential = preset.Potential
			e.cfg.Chain.NumberOfLinks = preset.Chain.NumberOfLinks
		}
		e.cfg.Model = string(kind)
	}

	values := map[string]float64{
		"link_stiffness":     e.cfg.Potential.LinkStiffness,
		"well_width":         e.cfg.Potential.WellWidth,
		"persistence_length": e.cfg.Potential.PersistenceLength,
		"link_energy":        e.cfg.Potential.LinkEnergy,
	}
	e.fields = []field{{"number_of_links", float64(e.cfg.Chain.NumberOfLinks)}}
	for _, name := range kind.Required() {
		e.fields = append(e.fields, field{name, values[name]})
	}
	e.fields = append(e.fields, field{"temperature", e.cfg.Temperature})
	e.state, e.fieldCursor, e.err = stateConfig, 0, nil
}

func (e *Explorer) configKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if e.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(e.editBuf, 64); err == nil {
				e.fields[e.fieldCursor].value = v
			}
			e.editing, e.editBuf = false, ""
		case "esc":
			e.editing, e.editBuf = false, ""
		case "backspace":
			if len(e.editBuf) > 0 {
				e.editBuf = e.editBuf[:len(e.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-e") {
				e.editBuf += s
			}
		}
		return e, nil
	}

	switch msg.String() {
	case "q", "esc":
		e.state = stateMenu
	case "up", "k":
		if e.fieldCursor > 0 {
			e.fieldCursor--
		}
	case "down", "j":
		if e.fieldCursor < len(e.fields)-1 {
			e.fieldCursor++
		}
	case "enter", " ":
		e.editing = true
		e.editBuf = strconv.FormatFloat(e.fields[e.fieldCursor].value, 'g', -1, 64)
	case "left", "h":
		e.fields[e.fieldCursor].value = nudge(e.fields[e.fieldCursor].value, -1)
	case "right", "l":
		e.fields[e.fieldCursor].value = nudge(e.fields[e.fieldCursor].value, 1)
	case "s":
		e.start()
	}
	return e, nil
}

// nudge changes a value by a tenth of its leading digit.
func nudge(v, sign float64) float64 {
	if v == 0 {
		return math.Max(0, sign)
	}
	step := math.Pow(10, math.Floor(math.Log10(math.Abs(v)))) / 10
	return v + sign*step
}

func (e *Explorer) start() {
	for _, f := range e.fields {
		switch f.name {
		case "number_of_links":
			e.cfg.Chain.NumberOfLinks = int(math.Round(f.value))
		case "temperature":
			e.cfg.Temperature = f.value
		default:
			if err := e.cfg.Potential.Set(f.name, f.value); err != nil {
				e.err = err
				return
			}
		}
	}

	m, err := e.cfg.BuildModel()
	if err != nil {
		e.err = err
		return
	}
	if err := thermo.Positive("temperature", e.cfg.Temperature); err != nil {
		e.err = err
		return
	}

	e.model, e.err = m, nil
	e.state = stateExplore
	e.setEnsemble(chains.Isotensional)
}

func (e *Explorer) setEnsemble(ens chains.Ensemble) {
	e.ensemble = ens
	e.variants = e.model.Variants(ens)
	e.variant = max(slices.Index(e.variants, e.model.Preferred(ens)), 0)
	if ens == chains.Isotensional {
		e.x = 1
	} else {
		e.x = 0.5 * e.upper()
	}
	e.computeCurve()
}

// upper is the extension the distribution vanishes beyond.
func (e *Explorer) upper() float64 {
	if d := e.model.Distribution(); d != nil {
		return d.Upper()
	}
	return 1
}

func (e *Explorer) step() float64 {
	if e.ensemble == chains.Isotensional {
		return 0.1
	}
	return 0.01 * e.upper()
}

func (e *Explorer) exploreKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return e, tea.Quit
	case "esc":
		e.state = stateConfig
	case "left", "h":
		e.x = math.Max(thermo.Zero, e.x-e.step())
	case "right", "l":
		e.x += e.step()
	case "H":
		e.x = math.Max(thermo.Zero, e.x-10*e.step())
	case "L":
		e.x += 10 * e.step()
	case "e":
		if e.ensemble == chains.Isotensional {
			e.setEnsemble(chains.Isometric)
		} else {
			e.setEnsemble(chains.Isotensional)
		}
	case "v":
		if len(e.variants) > 0 {
			e.variant = (e.variant + 1) % len(e.variants)
			e.computeCurve()
		}
	}
	return e, nil
}

func (e *Explorer) currentVariant() chains.Variant {
	if len(e.variants) == 0 {
		return chains.Auto
	}
	return e.variants[e.variant]
}

// computeCurve samples the force-extension relation of the current
// variant. Points that fail to evaluate are left as NaN gaps.
func (e *Explorer) computeCurve() {
	v := e.currentVariant()
	var (
		lo, hi float64
		fn     func(float64) (float64, error)
	)
	if e.ensemble == chains.Isotensional {
		view, err := e.model.Isotensional(v)
		if err != nil {
			e.err = err
			return
		}
		lo, hi, fn = thermo.Zero, 20, view.NondimensionalEndToEndLengthPerLink
	} else {
		view, err := e.model.Isometric(v)
		if err != nil {
			e.err = err
			return
		}
		lo, hi, fn = 0.01*e.upper(), 0.99*e.upper(), view.NondimensionalForce
	}

	xs, _ := sweep.Grid(lo, hi, curvePoints)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		y, err := fn(x)
		if err != nil {
			y = math.NaN()
		}
		ys[i] = y
	}
	e.curveX, e.curveY = xs, ys
}

type row struct {
	label, value string
}

func (e *Explorer) readout() ([]row, error) {
	chain := e.model.Chain()
	T := e.cfg.Temperature
	v := e.currentVariant()
	num := func(x float64) string { return strconv.FormatFloat(x, 'g', 6, 64) }

	var rows []row
	add := func(label string, f func() (float64, error), format func(float64) string) error {
		val, err := f()
		if err != nil {
			return err
		}
		rows = append(rows, row{label, format(val)})
		return nil
	}
	si := func(unit string) func(float64) string {
		return func(x float64) string { return humanize.SIWithDigits(x, 3, unit) }
	}

	if e.ensemble == chains.Isotensional {
		view, err := e.model.Isotensional(v)
		if err != nil {
			return nil, err
		}
		eta := e.x
		force := chain.Force(eta, T)
		steps := []struct {
			label  string
			f      func() (float64, error)
			format func(float64) string
		}{
			{"force", func() (float64, error) { return force, nil }, si("N")},
			{"extension per link γ", func() (float64, error) { return view.NondimensionalEndToEndLengthPerLink(eta) }, num},
			{"end-to-end length", func() (float64, error) { return view.EndToEndLength(force, T) }, si("m")},
			{"gibbs free energy (kT)", func() (float64, error) { return view.NondimensionalGibbsFreeEnergy(eta, T) }, num},
			{"gibbs per link (kT)", func() (float64, error) { return view.NondimensionalGibbsFreeEnergyPerLink(eta, T) }, num},
			{"relative gibbs (kT)", func() (float64, error) { return view.NondimensionalRelativeGibbsFreeEnergy(eta) }, num},
			{"relative gibbs per link", func() (float64, error) { return view.NondimensionalRelativeGibbsFreeEnergyPerLink(eta) }, num},
		}
		for _, s := range steps {
			if err := add(s.label, s.f, s.format); err != nil {
				return rows, err
			}
		}
		return rows, nil
	}

	view, err := e.model.Isometric(v)
	if err != nil {
		return nil, err
	}
	gamma := e.x
	length := chain.Extension(gamma)
	steps := []struct {
		label  string
		f      func() (float64, error)
		format func(float64) string
	}{
		{"end-to-end length", func() (float64, error) { return length, nil }, si("m")},
		{"force per kT/l η", func() (float64, error) { return view.NondimensionalForce(gamma) }, num},
		{"force", func() (float64, error) { return view.Force(length, T) }, si("N")},
		{"helmholtz free energy (kT)", func() (float64, error) { return view.NondimensionalHelmholtzFreeEnergy(gamma, T) }, num},
		{"helmholtz per link (kT)", func() (float64, error) { return view.NondimensionalHelmholtzFreeEnergyPerLink(gamma, T) }, num},
		{"relative helmholtz (kT)", func() (float64, error) { return view.NondimensionalRelativeHelmholtzFreeEnergy(gamma) }, num},
		{"radial density", func() (float64, error) { return e.model.Distribution().NondimensionalRadialDensity(gamma) }, num},
	}
	for _, s := range steps {
		if err := add(s.label, s.f, s.format); err != nil {
			return rows, err
		}
	}
	return rows, nil
}

func (e *Explorer) View() string {
	switch e.state {
	case stateMenu:
		return e.viewMenu()
	case stateConfig:
		return e.viewConfig()
	case stateExplore:
		return e.viewExplore()
	}
	return ""
}

func (e *Explorer) header(title, sub string) string {
	return "\n\n    " + GradientText(title, e.theme.Primary, e.theme.Secondary) +
		"\n    " + e.theme.label().Render(sub) +
		"\n    " + Separator(25) + "\n\n"
}

func (e *Explorer) hints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(e.theme.key().Render(pairs[i]))
		b.WriteString(e.theme.label().Render(" " + pairs[i+1] + "  "))
	}
	b.WriteString("\n")
	return b.String()
}

func (e *Explorer) viewMenu() string {
	var b strings.Builder
	b.WriteString(e.header("POLYSIM", "single-chain thermodynamics"))
	for i, kind := range e.kinds {
		name := fmt.Sprintf("%-16s", kind)
		if i == e.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", e.theme.key().Render("▸"), e.theme.value().Bold(true).Render(name),
				e.theme.selected().Render(modelInfo[kind]))
		} else {
			fmt.Fprintf(&b, "      %s  %s\n", e.theme.label().Render(name), e.theme.label().Render(modelInfo[kind]))
		}
	}
	b.WriteString(e.hints("j/k", "navigate", "enter", "select", "t", "theme", "q", "quit"))
	return b.String()
}

func (e *Explorer) viewConfig() string {
	var b strings.Builder
	b.WriteString(e.header(strings.ToUpper(e.cfg.Model), modelInfo[chains.Kind(e.cfg.Model)]))
	for i, f := range e.fields {
		val := fmt.Sprintf("%10s", strconv.FormatFloat(f.value, 'g', 6, 64))
		if e.editing && i == e.fieldCursor {
			val = fmt.Sprintf("%10s", e.editBuf+"_")
		}
		name := fmt.Sprintf("%-20s", f.name)
		if i == e.fieldCursor {
			fmt.Fprintf(&b, "    %s %s %s\n", e.theme.key().Render("▸"), e.theme.value().Bold(true).Render(name),
				e.theme.selected().Render(val))
		} else {
			fmt.Fprintf(&b, "      %s %s\n", e.theme.label().Render(name), e.theme.label().Render(val))
		}
	}
	if e.err != nil {
		b.WriteString("\n    " + e.theme.err().Render(e.err.Error()) + "\n")
	}
	b.WriteString(e.hints("j/k", "select", "h/l", "adjust", "enter", "edit", "s", "start", "esc", "back"))
	return b.String()
}

func (e *Explorer) viewExplore() string {
	var b strings.Builder
	variant := string(e.currentVariant())
	b.WriteString(e.header(strings.ToUpper(e.cfg.Model),
		fmt.Sprintf("%s · %s · N=%d", e.ensemble, variant, e.cfg.Chain.NumberOfLinks)))

	arg := "η"
	if e.ensemble == chains.Isometric {
		arg = "γ"
	}
	fmt.Fprintf(&b, "    %s %s\n\n", e.theme.label().Render(arg+" ="), MetricValue.Render(strconv.FormatFloat(e.x, 'g', 6, 64)))

	rows, err := e.readout()
	var panel strings.Builder
	for _, r := range rows {
		panel.WriteString(MetricLabel.Render(r.label) + MetricValue.Render(r.value) + "\n")
	}
	if err != nil {
		panel.WriteString(e.theme.err().Render(err.Error()) + "\n")
	}
	if e.ensemble == chains.Isotensional && len(rows) > 1 && err == nil {
		if gamma, perr := strconv.ParseFloat(rows[1].value, 64); perr == nil {
			panel.WriteString("\n" + ProgressBar(gamma/e.upper(), 30) + "\n")
		}
	}
	b.WriteString(GlassPanel.Render(strings.TrimRight(panel.String(), "\n")) + "\n")

	if len(e.curveX) > 0 {
		canvas := NewCanvas(max(min(e.width-8, 60), 10), 10)
		bounds := BoundsOf(e.curveX, e.curveY)
		canvas.PlotCurve(bounds, e.curveX, e.curveY)
		if y, ok := e.curveAt(e.x); ok {
			canvas.Mark(bounds, e.x, y)
		}
		for _, line := range strings.Split(strings.TrimRight(canvas.String(), "\n"), "\n") {
			b.WriteString("    " + e.theme.selected().UnsetBold().Render(line) + "\n")
		}
	}

	b.WriteString(e.hints("h/l", "step", "H/L", "jump", "e", "ensemble", "v", "variant", "t", "theme", "esc", "back"))
	return b.String()
}

// curveAt interpolates the sampled curve at x.
func (e *Explorer) curveAt(x float64) (float64, bool) {
	xs, ys := e.curveX, e.curveY
	if len(xs) < 2 || x < xs[0] || x > xs[len(xs)-1] {
		return 0, false
	}
	for i := 1; i < len(xs); i++ {
		if x <= xs[i] {
			t := (x - xs[i-1]) / (xs[i] - xs[i-1])
			y := ys[i-1] + t*(ys[i]-ys[i-1])
			return y, !math.IsNaN(y)
		}
	}
	return 0, false
}

// WithTheme switches the explorer to the named theme.
func (e *Explorer) WithTheme(name string) (*Explorer, error) {
	t, err := ParseTheme(name)
	if err != nil {
		return nil, err
	}
	e.theme = t
	return e, nil
}

// RunExplorer starts the explorer full screen in the named theme.
func RunExplorer(cfg *config.Config, theme string) error {
	e, err := NewExplorer(cfg).WithTheme(theme)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(e, tea.WithAltScreen()).Run()
	return err
}
