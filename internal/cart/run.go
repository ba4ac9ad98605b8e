package cart

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ntBre/go-xtb/internal/ctxlog"
	"github.com/ntBre/go-xtb/libxtb"
)

// Config holds the command-line settings.
type Config struct {
	InputFile string
	LogLevel  string
	LogFormat string
	// Workers overrides the input when positive and Derivative when
	// non-negative.
	Workers    int
	Derivative int
}

// Apply overrides the settings of in that were given on the command line.
func (c *Config) Apply(in *Input) error {
	if c.Workers > 0 {
		in.Workers = c.Workers
	}
	if c.Derivative >= 0 {
		in.Derivative = c.Derivative
	}
	return in.Validate()
}

// Report is the outcome of a run.
type Report struct {
	Energy   float64
	Gradient []float64
	Dipole   []float64

	// Numerical is the finite-difference gradient and MaxDeviation its
	// largest absolute difference from Gradient.
	Numerical    []float64
	MaxDeviation float64

	Hessian *mat.SymDense
}

type dipoler interface {
	Dipole() ([3]float64, bool)
}

// Run evaluates the system in in according to in.Derivative and writes a
// summary to out. A nil engine selects the native library.
func Run(ctx context.Context, in *Input, out io.Writer, engine libxtb.Engine) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	numbers, coords, err := in.Structure()
	if err != nil {
		return nil, err
	}
	params := in.Parameters(engine, logger)
	factory := ModelFactory(numbers, coords, params)
	logger.Info("starting run",
		slog.Int("atoms", len(numbers)),
		slog.String("method", in.Method.String()),
		slog.Int("derivative", in.Derivative),
		slog.Bool("periodic", params.Lattice != nil))

	report, err := reference(factory, len(coords))
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "energy: %.10f\n", report.Energy)
	if report.Dipole != nil {
		fmt.Fprintf(out, "dipole: %12.8f%12.8f%12.8f\n",
			report.Dipole[0], report.Dipole[1], report.Dipole[2])
	}
	fmt.Fprintln(out, "gradient:")
	writeVectors(out, numbers, report.Gradient)

	switch in.Derivative {
	case 1:
		groups := BuildJobList(len(coords))
		logger.Debug("built jobs", slog.String("stencil", Central(1).Format("x")),
			slog.Int("groups", len(groups)))
		if err := RunJobs(ctx, pending(groups), coords, in.Delta, in.Workers, factory); err != nil {
			return nil, err
		}
		report.Numerical = numericalGradient(groups, report.Energy, in.Delta)
		report.MaxDeviation = floats.Distance(report.Numerical, report.Gradient, math.Inf(1))
		fmt.Fprintln(out, "numerical gradient:")
		writeVectors(out, numbers, report.Numerical)
		fmt.Fprintf(out, "max deviation: %.3e\n", report.MaxDeviation)
		logger.Info("numerical gradient done", slog.Float64("max_deviation", report.MaxDeviation))
	case 2:
		groups := BuildJobList(len(coords))
		if err := RunJobs(ctx, pending(groups), coords, in.Delta, in.Workers, factory); err != nil {
			return nil, err
		}
		report.Hessian = hessian(groups, in.Delta)
		fmt.Fprintf(out, "hessian:\n%.6f\n", mat.Formatted(report.Hessian, mat.Squeeze()))
		logger.Info("hessian done", slog.Int("size", len(coords)))
	}
	return report, nil
}

func reference(factory Factory, n int) (*Report, error) {
	prog, err := factory()
	if err != nil {
		return nil, err
	}
	defer prog.Close()
	r := &Report{Gradient: make([]float64, n)}
	if r.Energy, err = prog.CalculateEnergyAndGradient(r.Gradient); err != nil {
		return nil, err
	}
	if d, ok := prog.(dipoler); ok {
		if dipole, ok := d.Dipole(); ok {
			r.Dipole = dipole[:]
		}
	}
	return r, nil
}

func numericalGradient(groups [][]Job, e0, delta float64) []float64 {
	grad := make([]float64, len(groups))
	for _, group := range groups {
		var total float64
		for _, job := range group {
			e := job.Result
			if job.Name == "E0" {
				e = e0
			}
			total += job.Coeff * e
		}
		i := group[0].Index[0] - 1
		grad[i] = total / Central(1).Denominator(delta)
	}
	return grad
}

// hessian differentiates the analytic gradients and symmetrizes the
// result.
func hessian(groups [][]Job, delta float64) *mat.SymDense {
	n := len(groups)
	h := mat.NewDense(n, n, nil)
	row := make([]float64, n)
	for _, group := range groups {
		for k := range row {
			row[k] = 0
		}
		for _, job := range group {
			floats.AddScaled(row, job.Coeff/Central(1).Denominator(delta), job.Gradient)
		}
		h.SetRow(group[0].Index[0]-1, row)
	}
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(h.At(i, j)+h.At(j, i)))
		}
	}
	return sym
}

func writeVectors(out io.Writer, numbers []int, v []float64) {
	for i, z := range numbers {
		fmt.Fprintf(out, "%-3s%16.10f%16.10f%16.10f\n", Symbol(z), v[3*i], v[3*i+1], v[3*i+2])
	}
}
