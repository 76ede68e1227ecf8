package chamber

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/utl"
	log "github.com/sirupsen/logrus"

	"regen/model"
)

// Contour is the inner wall of the thrust chamber from injector face to
// nozzle exit, in metres.
type Contour struct {
	Name   string
	X      []float64
	Y      []float64
	Throat int // index of the smallest radius
}

// NewContour checks the points and locates the throat.
func NewContour(name string, x, y []float64) (*Contour, error) {
	if len(x) != len(y) {
		return nil, model.InvalidConfig("contour %q has %d x and %d y values", name, len(x), len(y))
	}
	if len(x) < 2 {
		return nil, model.InvalidConfig("contour %q needs at least two points", name)
	}
	throat := 0
	for i := range x {
		if y[i] <= 0 || math.IsNaN(y[i]) {
			return nil, model.InvalidConfig("contour %q: radius %g at point %d", name, y[i], i)
		}
		if i > 0 && !(x[i] > x[i-1]) {
			return nil, model.InvalidConfig("contour %q: x not increasing at point %d", name, i)
		}
		if y[i] < y[throat] {
			throat = i
		}
	}
	if throat == len(x)-1 {
		return nil, model.InvalidConfig("contour %q has no diverging section", name)
	}
	return &Contour{Name: name, X: x, Y: y, Throat: throat}, nil
}

// Read parses whitespace or comma separated x y pairs multiplied by scale.
// Lines that are not two numbers (headers, comments) are skipped.
func Read(name string, r io.Reader, scale float64) (*Contour, error) {
	if scale <= 0 {
		scale = 1
	}
	var x, y []float64
	sc := bufio.NewScanner(r)
	skipped := 0
	for sc.Scan() {
		fields := strings.FieldsFunc(sc.Text(), func(c rune) bool {
			return c == ',' || c == ';' || c == ' ' || c == '\t'
		})
		if len(fields) < 2 {
			skipped++
			continue
		}
		xi, err1 := strconv.ParseFloat(fields[0], 64)
		yi, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			skipped++
			continue
		}
		x = append(x, xi*scale)
		y = append(y, yi*scale)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read contour %s: %w", name, err)
	}
	c, err := NewContour(name, x, y)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"contour": name,
		"points":  len(x),
		"skipped": skipped,
		"throat":  c.Throat,
	}).Debug("contour parsed")
	return c, nil
}

// Load reads a contour file. Coordinates in the file are multiplied by
// scale, e.g. 1e-3 for millimetres.
func Load(path string, scale float64) (*Contour, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open contour: %w", err)
	}
	defer f.Close()
	return Read(path, f, scale)
}

func (c *Contour) Len() int {
	return len(c.X)
}

func (c *Contour) ThroatRadius() float64 {
	return c.Y[c.Throat]
}

func (c *Contour) ThroatArea() float64 {
	return math.Pi * c.Y[c.Throat] * c.Y[c.Throat]
}

func (c *Contour) ChamberRadius() float64 {
	return c.Y[0]
}

// ExpansionRatio is exit over throat area.
func (c *Contour) ExpansionRatio() float64 {
	r := c.Y[len(c.Y)-1] / c.ThroatRadius()
	return r * r
}

// ContractionRatio is chamber over throat area.
func (c *Contour) ContractionRatio() float64 {
	r := c.Y[0] / c.ThroatRadius()
	return r * r
}

// Stations builds one station per point in contour order. Points
// downstream of the throat are on the supersonic branch.
func (c *Contour) Stations() []model.Station {
	out := make([]model.Station, len(c.X))
	for i := range c.X {
		out[i] = model.Station{
			Index:  i,
			X:      c.X[i],
			Y:      c.Y[i],
			Area:   math.Pi * c.Y[i] * c.Y[i],
			Branch: model.Subsonic,
		}
		if i > c.Throat {
			out[i].Branch = model.Supersonic
		}
	}
	return out
}

// Conical describes a cylinder, a converging cone and a diverging cone.
type Conical struct {
	ChamberRadius  float64
	ChamberLength  float64 // cylindrical part
	ThroatRadius   float64
	ConvergeAngle  float64 // half angle, degrees
	DivergeAngle   float64 // half angle, degrees
	ExpansionRatio float64
	Points         int
}

// Contour samples the conical chamber at evenly spaced axial positions. The
// throat is always one of the points.
func (g Conical) Contour() (*Contour, error) {
	switch {
	case g.ThroatRadius <= 0 || g.ChamberRadius <= g.ThroatRadius:
		return nil, model.InvalidConfig("conical chamber needs 0 < throat radius < chamber radius")
	case g.ConvergeAngle <= 0 || g.ConvergeAngle >= 90 || g.DivergeAngle <= 0 || g.DivergeAngle >= 90:
		return nil, model.InvalidConfig("cone half angles must lie in (0, 90) degrees")
	case g.ExpansionRatio <= 1:
		return nil, model.InvalidConfig("expansion ratio must exceed 1")
	case g.Points < 4:
		return nil, model.InvalidConfig("conical chamber needs at least 4 points")
	}
	rad := math.Pi / 180
	exitRadius := g.ThroatRadius * math.Sqrt(g.ExpansionRatio)
	xc := g.ChamberLength
	xt := xc + (g.ChamberRadius-g.ThroatRadius)/math.Tan(g.ConvergeAngle*rad)
	xe := xt + (exitRadius-g.ThroatRadius)/math.Tan(g.DivergeAngle*rad)

	// split the points between the two sides of the throat by length
	up := int(math.Round(float64(g.Points-1) * xt / xe))
	if up < 2 {
		up = 2
	}
	if up > g.Points-2 {
		up = g.Points - 2
	}
	x := append(utl.LinSpace(0, xt, up+1), utl.LinSpace(xt, xe, g.Points-up)[1:]...)
	y := make([]float64, len(x))
	for i, xi := range x {
		switch {
		case xi <= xc:
			y[i] = g.ChamberRadius
		case xi <= xt:
			y[i] = g.ChamberRadius - (xi-xc)*math.Tan(g.ConvergeAngle*rad)
		default:
			y[i] = g.ThroatRadius + (xi-xt)*math.Tan(g.DivergeAngle*rad)
		}
	}
	y[up] = g.ThroatRadius
	return NewContour("conical", x, y)
}
