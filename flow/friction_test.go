package flow

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestColebrook(tst *testing.T) {
	chk.PrintTitle("colebrook")

	f, err := Colebrook(1000, 0)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Float64(tst, "laminar", 1e-15, f, 0.064)

	// smooth pipe, Re=1e5: f ~ 0.018
	f, err = Colebrook(1e5, 0)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Float64(tst, "smooth", 2e-4, f, 0.0180)

	// the root satisfies the implicit relation
	re, eps := 5e4, 1e-3
	f, err = Colebrook(re, eps)
	if err != nil {
		tst.Fatal(err)
	}
	lhs := 1 / math.Sqrt(f)
	rhs := -2 * math.Log10(eps/3.7+2.51/(re*math.Sqrt(f)))
	chk.Float64(tst, "residual", 1e-9, lhs, rhs)

	// rougher is worse
	f2, _ := Colebrook(re, 1e-2)
	if f2 <= f {
		tst.Errorf("friction must grow with roughness")
	}
}
