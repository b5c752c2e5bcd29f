package analyzer

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/edp1096/nodal-spice/pkg/companion"
	"github.com/edp1096/nodal-spice/pkg/element"
	"github.com/edp1096/nodal-spice/pkg/netlist"
	"github.com/edp1096/nodal-spice/pkg/solver"
	"github.com/edp1096/nodal-spice/pkg/spmat"
)

const (
	initialDt  = 1e-2
	minDt      = 1e-4
	growthTol  = 0.1
)

// stepOutcome records whether an inner step-sizing attempt was accepted or
// shrinks Δt, named after the Accepted/Shrinking states of the step loop.
type stepOutcome int

const (
	shrinking stepOutcome = iota
	accepted
)

// RunTransient builds companion models for every reactive element, runs
// the adaptive-Δt stepping loop until tFinal, and records every task's
// samples each accepted step.
func RunTransient(nl *netlist.Netlist, tFinal float64, w io.Writer, log zerolog.Logger) error {
	models := companion.BuildAll(nl)
	companionElems := companion.Elements(models)

	base, branches, elems := nl.BaseTransientEquation(companionElems)
	nonlinear := nonlinearElements(elems)
	sources := timeVaryingSources(elems)

	x := spmat.NewSparseVector(base.A.Dim())
	t := 0.0
	dt := initialDt

	for t < tFinal {
		if dt > tFinal-t {
			dt = tFinal - t
		}

		var xAttempt *spmat.SparseVector
		var outcome stepOutcome
		for {
			eq := base.Clone()
			for _, m := range models {
				m.Update(x, dt)
			}
			stamper := &netlist.LiveStamper{Mat: eq.A, RHS: eq.B}
			for _, m := range models {
				m.Restamp(stamper, branches)
			}
			for _, src := range sources {
				src.SetTime(t + dt)
				src.RestampValue(stamper, branches)
			}

			attempt, err := solver.Solve(eq, nonlinear, branches, x)
			if err != nil {
				return err
			}
			xAttempt = attempt

			if l1Norm(xAttempt, x) < growthTol || dt < minDt {
				outcome = accepted
				break
			}
			outcome = shrinking
			dt /= 2
			log.Debug().Float64("t", t).Float64("dt", dt).Msg("shrinking step")
		}
		_ = outcome

		x = xAttempt
		t += dt
		for _, m := range models {
			m.Commit(x)
		}
		nl.Sample(netlist.TransientMode, x, branches)
		log.Debug().Float64("t", t).Float64("dt", dt).Msg("accepted step")

		dt *= 2 // grow for the next step
	}

	writeTaskSamples(nl, w)
	return nil
}

// timeVaryingSources filters elems down to the independent sources whose
// value depends on t, so the step loop only pays SetTime/RestampValue for
// the ones that actually need it.
func timeVaryingSources(elems []element.Element) []element.TimeVaryingSource {
	var out []element.TimeVaryingSource
	for _, e := range elems {
		if tv, ok := e.(element.TimeVaryingSource); ok && tv.IsTimeVarying() {
			out = append(out, tv)
		}
	}
	return out
}

func l1Norm(a, b *spmat.SparseVector) float64 {
	sum := 0.0
	for i := 0; i < a.Dim(); i++ {
		d := a.At(i) - b.At(i)
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}
