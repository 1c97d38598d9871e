// Package wave generates the decorative cesium oscillation waveforms drawn
// behind the cycle counter.
package wave

import (
	"math"
	"strconv"
	"strings"
)

// Geometry of the oscillator viewport.
const (
	Width      = 400 // horizontal extent, x in [0, Width]
	Step       = 2   // x increment between samples
	ViewHeight = 100 // vertical extent of the viewport
	Period     = 20  // x units per phase unit
	Center     = 50  // vertical center line

	// Samples is the number of points produced by GeneratePath.
	Samples = Width/Step + 1

	// LayerCount is the number of stacked decorative waves.
	LayerCount = 3
)

// Point is one sample of a waveform in viewport coordinates.
type Point struct {
	X float64
	Y float64
}

// Layer is one decorative waveform together with its stroke attributes.
type Layer struct {
	Phase       float64
	Amplitude   float64
	StrokeWidth float64
	Opacity     float64
	Glow        bool
	Points      []Point
}

// GeneratePath samples y = center + amplitude*sin(2π(x/20 + phase)) for
// x = 0, 2, …, 400. It always returns Samples points.
func GeneratePath(phase, center, amplitude float64) []Point {
	points := make([]Point, 0, Samples)
	for x := 0; x <= Width; x += Step {
		fx := float64(x)
		y := center + amplitude*math.Sin(2*math.Pi*(fx/Period+phase))
		points = append(points, Point{X: fx, Y: y})
	}
	return points
}

// Layers returns the stacked waves for one render. Layer i is offset by
// 0.1 in phase, loses 5 units of amplitude, 1 unit of stroke width and 0.3
// of opacity relative to layer i-1. Only the front layer glows.
func Layers(phase float64) []Layer {
	layers := make([]Layer, 0, LayerCount)
	for i := range LayerCount {
		fi := float64(i)
		p := phase + 0.1*fi
		amp := 30 - 5*fi
		layers = append(layers, Layer{
			Phase:       p,
			Amplitude:   amp,
			StrokeWidth: 3 - fi,
			Opacity:     1 - 0.3*fi,
			Glow:        i == 0,
			Points:      GeneratePath(p, Center, amp),
		})
	}
	return layers
}

// ScanLineX returns the x position of the vertical scanning line.
func ScanLineX(phase float64) float64 {
	return phase * Width
}

// SVGPath encodes points as an SVG path: "M x y L x y …".
func SVGPath(points []Point) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString("L ")
		}
		b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
	}
	return b.String()
}
