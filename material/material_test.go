package material

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"

	"regen/model"
)

func TestInconel718(tst *testing.T) {
	chk.PrintTitle("inconel 718")

	m := Inconel718(24)
	chk.Float64(tst, "E(294.3)", 1, m.Modulus(294.3), 199.947961502171e9)
	chk.Float64(tst, "E(cold)", 1, m.Modulus(100), 199.947961502171e9)
	chk.Float64(tst, "E(hot)", 1, m.Modulus(2000), 98.5950292924497e9)
	chk.Float64(tst, "yield(mid)", 1, m.Yield((922+977.6)/2), (965.27e6+930.79e6)/2)
	chk.Float64(tst, "allowable", 1, m.Allowable(293), 1123.85e6)

	// modulus and yield fall with temperature
	if m.Modulus(1000) >= m.Modulus(500) {
		tst.Errorf("modulus must fall with temperature")
	}
	if m.Yield(1000) >= m.Yield(500) {
		tst.Errorf("yield must fall with temperature")
	}
}

func TestLoad(tst *testing.T) {
	chk.PrintTitle("material file")

	path := filepath.Join(tst.TempDir(), "alu.json")
	data := `{
		"name": "alu",
		"conductivity": 150,
		"poisson": 0.33,
		"expansion": 21e-6,
		"melting_point": 900,
		"safety_factor": 2,
		"modulus": [{"temperature": 293, "value": 57e9}],
		"yield": [{"temperature": 403, "value": 180e6}, {"temperature": 293, "value": 180e6}, {"temperature": 573, "value": 85e6}]
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		tst.Fatal(err)
	}
	m, err := ByName("ignored", path, 0)
	if err != nil {
		tst.Fatalf("load failed: %v", err)
	}
	chk.Float64(tst, "E", 0, m.Modulus(700), 57e9)
	chk.Float64(tst, "allowable", 1, m.Allowable(573), 42.5e6)
}

func TestInvalid(tst *testing.T) {
	if _, err := ByName("unobtainium", "", 24); !errors.Is(err, model.ErrInvalidConfiguration) {
		tst.Errorf("unknown material accepted: %v", err)
	}
	_, err := New(File{Name: "x", Conductivity: 10, Poisson: 0.3})
	if !errors.Is(err, model.ErrInvalidConfiguration) {
		tst.Errorf("empty tables accepted: %v", err)
	}
}
