package parambulator

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestLagrangeIdentity(t *testing.T) {
	s := NewStateVector([]float64{7000, 200, 3000}, []float64{1, 9.5, 1.5})
	for _, Δν := range []float64{0, 360, -360, 720} {
		c, err := NewLagrangeCoefficients(s, μEarth, Δν)
		if err != nil {
			t.Fatalf("Δν=%f: %s", Δν, err)
		}
		if c != (LagrangeCoefficients{F: 1, G: 0, FDot: 0, GDot: 1}) {
			t.Fatalf("Δν=%f: expected the identity, got %s", Δν, c)
		}
		s1 := c.Apply(s)
		for i := 0; i < 3; i++ {
			if s1.R[i] != s.R[i] || s1.V[i] != s.V[i] {
				t.Fatalf("Δν=%f: state changed: %s", Δν, s1)
			}
		}
	}
}

func TestLagrangeCoefficients(t *testing.T) {
	s := NewStateVector([]float64{7000, 200, 3000}, []float64{1, 9.5, 1.5})
	c, err := NewLagrangeCoefficients(s, μEarth, 45)
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		name     string
		got, exp float64
	}{
		{"f", c.F, 0.7727214703841049},
		{"g", c.G, 759.6665500900012},
		{"ḟ", c.FDot, -0.00047160083809559387},
		{"ġ", c.GDot, 0.8304940950914308},
	} {
		if !scalar.EqualWithinRel(tc.got, tc.exp, 1e-9) {
			t.Fatalf("%s=%g != %g", tc.name, tc.got, tc.exp)
		}
	}
	if !scalar.EqualWithinAbs(c.Determinant(), 1, 1e-9) {
		t.Fatalf("f·ġ − ḟ·g = %f != 1", c.Determinant())
	}
	s1 := c.Apply(s)
	if !vectorsEqualWithin(s1.R, []float64{6168.716842778735, 7371.376519931832, 3457.6642362873163}, 1e-9) {
		t.Fatalf("R1=%+v", s1.R)
	}
	if !vectorsEqualWithin(s1.V, []float64{-2.4707117715777267, 7.7953737357494735, -0.16906137164963542}, 1e-9) {
		t.Fatalf("V1=%+v", s1.V)
	}
}

func TestPropagateComposable(t *testing.T) {
	s := NewStateVector([]float64{7000, 200, 3000}, []float64{1, 9.5, 1.5})
	for _, Δν := range []float64{10, 45, 80, 120} {
		half, err := Propagate(s, μEarth, Δν/2)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := Propagate(half, μEarth, Δν/2)
		if err != nil {
			t.Fatal(err)
		}
		once, err := Propagate(s, μEarth, Δν)
		if err != nil {
			t.Fatal(err)
		}
		if !twice.Equals(once, 1e-6) {
			t.Fatalf("Δν=%f: two steps %s != one step %s", Δν, twice, once)
		}
	}
}

func TestPropagateConservation(t *testing.T) {
	for _, s := range []StateVector{
		NewStateVector([]float64{7000, 200, 3000}, []float64{1, 9.5, 1.5}),
		NewStateVector([]float64{6524.834, 6862.875, 6448.296}, []float64{4.901327, 5.533756, -1.976341}),
	} {
		o0, err := NewElementsFromRV(s, μEarth)
		if err != nil {
			t.Fatal(err)
		}
		for Δν := 10.0; Δν < 360; Δν += 25 {
			s1, err := Propagate(s, μEarth, Δν)
			if err != nil {
				t.Fatalf("Δν=%f: %s", Δν, err)
			}
			if !scalar.EqualWithinRel(s1.Energyξ(μEarth), s.Energyξ(μEarth), 1e-9) {
				t.Fatalf("Δν=%f: energy not conserved", Δν)
			}
			if !vectorsEqualWithin(s1.H(), s.H(), 1e-9) {
				t.Fatalf("Δν=%f: angular momentum not conserved", Δν)
			}
			o1, err := NewElementsFromRV(s1, μEarth)
			if err != nil {
				t.Fatal(err)
			}
			if ok, err := o0.Equals(*o1); !ok {
				t.Fatalf("Δν=%f: orbit changed: %s", Δν, err)
			}
			if ok, err := anglesEqual(o1.Nu, o0.Nu+Δν); !ok {
				t.Fatalf("Δν=%f: true anomaly %s", Δν, err)
			}
		}
	}
}

func TestPropagateErrors(t *testing.T) {
	s := NewStateVector([]float64{7000, 200, 3000}, []float64{1, 9.5, 1.5})
	for _, Δν := range []float64{180, -180, 540, 180 + 1e-8} {
		if _, err := Propagate(s, μEarth, Δν); !errors.Is(err, ErrUnsupportedPropagationAngle) {
			t.Fatalf("Δν=%f: expected an unsupported angle, got %v", Δν, err)
		}
	}
	if _, err := Propagate(s, μEarth, 179.9); err != nil {
		t.Fatalf("Δν=179.9 should be supported: %s", err)
	}
	rectilinear := NewStateVector([]float64{7000, 0, 0}, []float64{1, 0, 0})
	if _, err := Propagate(rectilinear, μEarth, 10); !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("rectilinear orbit accepted: %v", err)
	}
	if _, err := Propagate(NewStateVector([]float64{0, 0, 0}, []float64{1, 0, 0}), μEarth, 10); !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("null position accepted: %v", err)
	}
	// Hyperbola with e≈1.57: the asymptotes are at ν=±129.5°.
	hyperbola := NewStateVector([]float64{7000, 0, 1000}, []float64{0, 12, 1})
	if _, err := Propagate(hyperbola, μEarth, 150); !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("propagation beyond the asymptote accepted: %v", err)
	}
	if _, err := Propagate(hyperbola, μEarth, 60); err != nil {
		t.Fatalf("propagation on the hyperbola failed: %s", err)
	}
}

func TestSampleTrajectory(t *testing.T) {
	s := NewStateVector([]float64{7000, 200, 3000}, []float64{1, 9.5, 1.5})
	samples := SampleTrajectory(s, μEarth, []float64{0, 90, 180, 270})
	if len(samples) != 4 {
		t.Fatalf("%d samples", len(samples))
	}
	for i, sample := range samples {
		if i == 2 {
			if !errors.Is(sample.Err, ErrUnsupportedPropagationAngle) {
				t.Fatalf("sample at 180° should have failed: %v", sample.Err)
			}
			continue
		}
		if sample.Err != nil {
			t.Fatalf("sample %d: %s", i, sample.Err)
		}
	}
	if !samples[0].State.Equals(s, 0) {
		t.Fatal("first sample is not the initial state")
	}
	// The input is never modified.
	if s.R[0] != 7000 || s.V[1] != 9.5 {
		t.Fatal("initial state mutated")
	}
}

func TestTimeOfFlight(t *testing.T) {
	s := NewStateVector([]float64{7000, 200, 3000}, []float64{1, 9.5, 1.5})
	o, _ := NewElementsFromRV(s, μEarth)
	tof, err := TimeOfFlight(s, μEarth, 90)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinRel(tof, 2965.1031856578356, 1e-9) {
		t.Fatalf("tof=%f", tof)
	}
	if full, _ := TimeOfFlight(s, μEarth, 360); !scalar.EqualWithinRel(full, o.Period, 1e-9) {
		t.Fatalf("one revolution=%f != period=%f", full, o.Period)
	}
	if back, _ := TimeOfFlight(s, μEarth, -90); back >= 0 {
		t.Fatalf("backward propagation should take a negative time, got %f", back)
	}
	hyperbola := NewStateVector([]float64{7000, 0, 1000}, []float64{0, 12, 1})
	if _, err := TimeOfFlight(hyperbola, μEarth, 10); !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatal("time of flight on a hyperbola accepted")
	}
	if math.IsNaN(tof) {
		t.Fatal("NaN time of flight")
	}
}
