package presence

import (
	"math/rand"
	"testing"
	"time"
)

func TestCooldownTooSoon(t *testing.T) {
	c := Cooldown{Min: 10 * time.Second}
	base := time.Now()
	if !c.TooSoon(base, true, base.Add(5*time.Second)) {
		t.Error("Packet 5s after the last one should be too soon")
	}
	if c.TooSoon(base, true, base.Add(10*time.Second)) {
		t.Error("Packet exactly one cooldown later should pass")
	}
	if c.TooSoon(base, true, base.Add(15*time.Second)) {
		t.Error("Packet 15s after the last one should pass")
	}
}

func TestCooldownNeverSeen(t *testing.T) {
	c := Cooldown{Min: 10 * time.Second}
	// The zero time is what an absent entry reports; only `seen`
	// matters.
	if c.TooSoon(time.Time{}, false, time.Now()) {
		t.Error("First ever packet from a source should always pass")
	}
}

func TestFanoutProb(t *testing.T) {
	f := NewFanout(50, nil)
	cases := []struct {
		n        int
		expected float64
	}{
		{3, 12.5},
		{49, 1.0},
		{99, 0.5},
		{199, 0.25},
	}
	for _, tc := range cases {
		if got := f.Prob(tc.n); got != tc.expected {
			t.Error("Prob(", tc.n, ") expected", tc.expected, "got", got)
		}
	}
}

func TestFanoutDrawDeterministic(t *testing.T) {
	// Inject a fixed sequence so the decisions are exact
	seq := []float64{0.2, 0.9, 0.499}
	i := 0
	rng := func() float64 {
		v := seq[i]
		i++
		return v
	}
	f := NewFanout(50, rng)
	// n=99 gives p=0.5
	expected := []bool{true, false, true}
	for _, want := range expected {
		if got := f.Draw(99); got != want {
			t.Error("Draw with injected rng: expected", want, "got", got)
		}
	}
}

func TestFanoutAlwaysForwardsBelowTarget(t *testing.T) {
	f := NewFanout(50, nil)
	// Below 50 contacts p >= 1, so every draw must select
	for i := 0; i < 1000; i++ {
		if !f.Draw(10) {
			t.Fatal("Draw returned false despite p >= 1")
		}
	}
}

func TestFanoutExpectedRecipients(t *testing.T) {
	// With n=99 (p=0.5), the expected selection rate over many draws
	// is 50%. Use a fixed seed so the test doesn't flake.
	rng := rand.New(rand.NewSource(42)).Float64
	f := NewFanout(50, rng)
	trials := 100000
	selected := 0
	for i := 0; i < trials; i++ {
		if f.Draw(99) {
			selected++
		}
	}
	rate := float64(selected) / float64(trials)
	if rate < 0.48 || rate > 0.52 {
		t.Error("Selection rate", rate, "too far from expected 0.5")
	}
}
