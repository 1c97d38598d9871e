package panel

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aelexs/atomic-clock/internal/domain"
	"github.com/aelexs/atomic-clock/internal/wave"
)

// Palette of the display.
const (
	colorPrimary = lipgloss.Color("#00ff88")
	colorAccent  = lipgloss.Color("#ffaa00")
	colorGrid    = lipgloss.Color("#1a3a4a")
	colorDim     = lipgloss.Color("#2f8f62")
	colorFaint   = lipgloss.Color("#1f5a40")
	colorError   = lipgloss.Color("#ef4444")
)

const (
	// DefaultWidth is the panel width when the terminal size is unknown.
	DefaultWidth = 76
	// MinWidth is the narrowest layout; the four time blocks stack below it.
	MinWidth = 44

	waveRows   = 9
	blockCount = 4
)

// RendererConfig configures a Renderer.
type RendererConfig struct {
	// Color enables ANSI colors. Without it the panel is plain text with
	// box-drawing borders.
	Color bool
	// Output is the terminal the panel is drawn on; used for color profile
	// detection. Nil means stdout.
	Output io.Writer
	// Width is the panel width in cells; values below MinWidth are raised.
	Width int
}

// Renderer draws Frames as text.
type Renderer struct {
	width   int
	printer *message.Printer
	st      styles
}

type styles struct {
	title     lipgloss.Style
	subtitle  lipgloss.Style
	primary   lipgloss.Style
	millis    lipgloss.Style
	micros    lipgloss.Style
	meta      lipgloss.Style
	accent    lipgloss.Style
	box       lipgloss.Style
	card      lipgloss.Style
	cardLabel lipgloss.Style
	cardValue lipgloss.Style
	cardAcc   lipgloss.Style
	cardSub   lipgloss.Style
	layers    []lipgloss.Style
	scan      lipgloss.Style
	status    map[domain.Status]lipgloss.Style
	faint     lipgloss.Style
}

// NewRenderer creates a renderer.
func NewRenderer(cfg RendererConfig) *Renderer {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	lr := lipgloss.NewRenderer(out)
	if !cfg.Color {
		lr.SetColorProfile(termenv.Ascii)
	}

	r := &Renderer{
		printer: message.NewPrinter(language.English),
		st:      newStyles(lr),
	}
	r.SetWidth(cfg.Width)
	return r
}

func newStyles(lr *lipgloss.Renderer) styles {
	s := lr.NewStyle
	return styles{
		title:     s().Foreground(colorPrimary).Bold(true),
		subtitle:  s().Foreground(colorAccent),
		primary:   s().Foreground(colorPrimary).Bold(true),
		millis:    s().Foreground(colorAccent),
		micros:    s().Foreground(colorDim),
		meta:      s().Foreground(colorDim),
		accent:    s().Foreground(colorAccent),
		box:       s().Border(lipgloss.RoundedBorder()).BorderForeground(colorGrid).Padding(0, 1),
		card:      s().Border(lipgloss.NormalBorder()).BorderForeground(colorGrid).Padding(0, 1),
		cardLabel: s().Foreground(colorDim),
		cardValue: s().Foreground(colorPrimary),
		cardAcc:   s().Foreground(colorAccent),
		cardSub:   s().Foreground(colorFaint),
		layers: []lipgloss.Style{
			s().Foreground(colorPrimary).Bold(true),
			s().Foreground(colorDim),
			s().Foreground(colorFaint),
		},
		scan: s().Foreground(colorAccent),
		status: map[domain.Status]lipgloss.Style{
			domain.StatusNominal: s().Foreground(colorPrimary),
			domain.StatusWarning: s().Foreground(colorAccent),
			domain.StatusError:   s().Foreground(colorError),
		},
		faint: s().Foreground(colorFaint),
	}
}

// SetWidth changes the panel width, e.g. after a terminal resize.
func (r *Renderer) SetWidth(w int) {
	if w <= 0 {
		w = DefaultWidth
	}
	r.width = max(w, MinWidth)
}

// Width returns the current panel width.
func (r *Renderer) Width() int {
	return r.width
}

// Render draws the full panel.
func (r *Renderer) Render(f Frame) string {
	sections := []string{
		r.header(),
		r.primary(f),
		r.oscillator(f),
		r.blocks(f),
		r.statusBar(f),
	}
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

// Line renders a compact single-line summary for plain output.
func (r *Renderer) Line(f Frame) string {
	v := f.View
	return r.printer.Sprintf("%s.%s%s UTC %s UNIX %s JD %s TAI %s DRIFT %.4fms CYCLES %d",
		v.LocalClock(), v.Millis(), v.Micros(),
		v.UTCClock(), v.UnixString(), v.JulianString(), v.TAIOffset,
		f.Drift, v.CesiumCycles)
}

func (r *Renderer) header() string {
	title := r.st.title.Render(spaced("ATOMIC CLOCK"))
	sub := r.st.subtitle.Render("CESIUM-133 HYPERFINE TRANSITION REFERENCE")
	return lipgloss.JoinVertical(lipgloss.Center, title, sub, "")
}

func (r *Renderer) primary(f Frame) string {
	v := f.View
	readout := r.st.primary.Render(v.LocalClock()) +
		r.st.millis.Render("."+v.Millis()) +
		" " + r.st.micros.Render(v.Micros())

	parts := []string{
		r.st.meta.Render("PRECISION: 10^-6s"),
		r.st.meta.Render(fmt.Sprintf("DRIFT: %.4fms", f.Drift)),
		r.st.accent.Render("SYNC: ACTIVE"),
	}
	meta := strings.Join(parts, r.st.meta.Render(" | "))
	if lipgloss.Width(meta) > r.width-4 {
		meta = lipgloss.JoinVertical(lipgloss.Center, parts...)
	}

	body := lipgloss.JoinVertical(lipgloss.Center, readout, meta)
	return r.st.box.Render(body)
}

func (r *Renderer) oscillator(f Frame) string {
	inner := r.width - 4 // border and padding
	v := f.View

	label := r.st.meta.Render("CESIUM-133 OSCILLATION")
	freq := r.st.accent.Render(r.printer.Sprintf("%d Hz", int64(domain.CesiumFrequencyHz)))
	gap := max(1, inner-lipgloss.Width(label)-lipgloss.Width(freq))
	top := label + strings.Repeat(" ", gap) + freq

	raster := Rasterize(wave.Layers(v.Phase), wave.ScanLineX(v.Phase), inner, waveRows)
	lines := make([]string, 0, waveRows+2)
	lines = append(lines, top)
	lines = append(lines, r.styledRaster(raster)...)

	cycles := r.st.faint.Render(r.printer.Sprintf("CYCLES: %d", v.CesiumCycles))
	lines = append(lines, lipgloss.PlaceHorizontal(inner, lipgloss.Right, cycles))

	return r.st.box.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) styledRaster(raster Raster) []string {
	out := make([]string, raster.Rows)
	for y := range raster.Rows {
		var b strings.Builder
		for x := range raster.Cols {
			cell := string(raster.Cells[y][x])
			switch layer := raster.Layer[y][x]; {
			case layer == cellEmpty:
				b.WriteString(cell)
			case layer == cellScan:
				b.WriteString(r.st.scan.Render(cell))
			default:
				b.WriteString(r.st.layers[min(layer, len(r.st.layers)-1)].Render(cell))
			}
		}
		out[y] = b.String()
	}
	return out
}

func (r *Renderer) blocks(f Frame) string {
	v := f.View
	cards := []struct {
		label, value, sub string
		accent            bool
	}{
		{"UTC TIME", v.UTCClock(), "COORDINATED UNIVERSAL TIME", false},
		{"UNIX EPOCH", v.UnixString(), "SECONDS SINCE 1970-01-01", false},
		{"JULIAN DATE", v.JulianString(), "ASTRONOMICAL DAY NUMBER", false},
		{"TAI OFFSET", v.TAIOffset, "INTERNATIONAL ATOMIC TIME", true},
	}

	perRow := blockCount
	cardWidth := r.width/perRow - 2 // border
	if cardWidth < 28 {
		perRow = 2
		cardWidth = r.width/perRow - 2
	}
	if cardWidth < 28 {
		perRow = 1
		cardWidth = r.width - 2
	}

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		valueStyle := r.st.cardValue
		if c.accent {
			valueStyle = r.st.cardAcc
		}
		sub := c.sub
		if lipgloss.Width(sub) > cardWidth-2 {
			sub = sub[:cardWidth-2]
		}
		body := lipgloss.JoinVertical(lipgloss.Left,
			r.st.cardLabel.Render(c.label),
			valueStyle.Render(c.value),
			r.st.cardSub.Render(sub),
		)
		rendered = append(rendered, r.st.card.Width(cardWidth).Render(body))
	}

	rows := make([]string, 0, blockCount)
	for i := 0; i < len(rendered); i += perRow {
		end := min(i+perRow, len(rendered))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (r *Renderer) statusBar(f Frame) string {
	// The lights pulse with the oscillator: lit in the first half second.
	dot := "●"
	if f.View.Phase >= 0.5 {
		dot = "○"
	}
	parts := make([]string, 0, len(f.Indicators))
	for _, ind := range f.Indicators {
		style, ok := r.st.status[ind.Status]
		if !ok {
			style = r.st.status[domain.StatusError]
		}
		parts = append(parts, style.Render(dot)+" "+r.st.faint.Render(ind.Label))
	}

	const sep = "   "
	var rows []string
	row := ""
	for _, p := range parts {
		switch {
		case row == "":
			row = p
		case lipgloss.Width(row)+len(sep)+lipgloss.Width(p) > r.width:
			rows = append(rows, row)
			row = p
		default:
			row += sep + p
		}
	}
	if row != "" {
		rows = append(rows, row)
	}
	return "\n" + lipgloss.JoinVertical(lipgloss.Center, rows...)
}

// spaced inserts a space between letters: "ATOMIC" → "A T O M I C".
func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}
