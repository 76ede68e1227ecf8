package material

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"regen/model"
	"regen/numeric"
)

// Metal is a structural wall material. Young's modulus and yield strength
// depend on temperature; the other properties are constant.
type Metal struct {
	Name         string
	Conductivity float64 // W/m/K
	Poisson      float64
	Expansion    float64 // 1/K
	MeltingPoint float64 // K
	SafetyFactor float64 // allowable = yield / SafetyFactor

	modulus *numeric.Table
	yield   *numeric.Table
}

// Point is one temperature-dependent record of a material file.
type Point struct {
	Temperature float64 `json:"temperature"`
	Value       float64 `json:"value"`
}

// File is the on-disk JSON form of a Metal.
type File struct {
	Name         string  `json:"name"`
	Conductivity float64 `json:"conductivity"`
	Poisson      float64 `json:"poisson"`
	Expansion    float64 `json:"expansion"`
	MeltingPoint float64 `json:"melting_point"`
	SafetyFactor float64 `json:"safety_factor"`
	Modulus      []Point `json:"modulus"`
	Yield        []Point `json:"yield"`
}

// Inconel 718 data points
var (
	in718ModulusT = []float64{294.3, 310.9, 366.5, 422, 477.6, 533.2, 588.7, 644.3, 699.8, 755.4, 810.9,
		866.5, 922, 977.6, 1033.2, 1088.7, 1144.3, 1199.8, 1255.4, 1310.9, 1366.5}
	in718Modulus = []float64{199.947961502171e9, 198.569010043535e9, 195.811107126264e9, 193.053204208992e9,
		190.295301291721e9, 186.847922645132e9, 184.090019727861e9, 180.642641081271e9, 177.884738164e9,
		174.437359517411e9, 170.989980870822e9, 166.853126494915e9, 163.405747848326e9, 158.579417743101e9,
		153.753087637876e9, 146.858330344698e9, 139.274097322202e9, 129.621437111752e9, 119.968776901302e9,
		109.626640961535e9, 98.5950292924497e9}
	in718YieldT = []float64{293, 588.7, 810.9, 922, 977.6, 1033.2, 1088.7}
	in718Yield  = []float64{1123.85e6, 1075.58e6, 1020.42e6, 965.27e6, 930.79e6, 799.79e6, 689.48e6}
)

// Inconel718 returns the built-in nickel superalloy with the given thermal
// conductivity (24 W/m/K is typical at 800 C).
func Inconel718(conductivity float64) *Metal {
	m := &Metal{
		Name:         "in718",
		Conductivity: conductivity,
		Poisson:      0.29,
		Expansion:    12e-6,
		MeltingPoint: 1609,
		SafetyFactor: 1,
	}
	m.modulus, _ = numeric.NewTable(in718ModulusT, in718Modulus)
	m.yield, _ = numeric.NewTable(in718YieldT, in718Yield)
	return m
}

// New builds a Metal from a decoded material file.
func New(f File) (*Metal, error) {
	if f.Conductivity <= 0 {
		return nil, model.InvalidConfig("material %q: conductivity must be positive", f.Name)
	}
	if f.Poisson < 0 || f.Poisson >= 0.5 {
		return nil, model.InvalidConfig("material %q: poisson ratio %g out of range", f.Name, f.Poisson)
	}
	if f.SafetyFactor == 0 {
		f.SafetyFactor = 1
	}
	m := &Metal{
		Name:         f.Name,
		Conductivity: f.Conductivity,
		Poisson:      f.Poisson,
		Expansion:    f.Expansion,
		MeltingPoint: f.MeltingPoint,
		SafetyFactor: f.SafetyFactor,
	}
	var err error
	if m.modulus, err = table(f.Modulus); err != nil {
		return nil, model.InvalidConfig("material %q modulus: %v", f.Name, err)
	}
	if m.yield, err = table(f.Yield); err != nil {
		return nil, model.InvalidConfig("material %q yield: %v", f.Name, err)
	}
	return m, nil
}

func table(points []Point) (*numeric.Table, error) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Temperature < points[j].Temperature
	})
	x := make([]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i], y[i] = p.Temperature, p.Value
	}
	return numeric.NewTable(x, y)
}

// Load reads a material from a JSON file.
func Load(path string) (*Metal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read material: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, model.InvalidConfig("parse material %s: %v", path, err)
	}
	m, err := New(f)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"material": m.Name, "path": path}).Info("material loaded")
	return m, nil
}

// ByName resolves a built-in material, or loads it from path when set.
func ByName(name, path string, conductivity float64) (*Metal, error) {
	if path != "" {
		return Load(path)
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "in718", "inconel718", "inconel-718":
		return Inconel718(conductivity), nil
	}
	return nil, model.InvalidConfig("unknown material %q", name)
}

// Modulus returns Young's modulus at t, clamped to the tabulated range.
func (m *Metal) Modulus(t float64) float64 {
	return m.modulus.At(t)
}

// Yield returns the yield strength at t, clamped to the tabulated range.
func (m *Metal) Yield(t float64) float64 {
	return m.yield.At(t)
}

// Allowable is the design stress at t.
func (m *Metal) Allowable(t float64) float64 {
	return m.yield.At(t) / m.SafetyFactor
}
