package cart

import (
	"hash/maphash"
	"strconv"
)

// Job is one displaced-geometry evaluation contributing Coeff times its
// result to the derivative at Index.
type Job struct {
	Coeff float64
	Name  string
	// Steps holds signed 1-based coordinate indices, one per displacement
	// by delta. It is empty for the reference geometry.
	Steps []int
	Index []int

	Result   float64
	Gradient []float64
}

// Step returns a copy of coords displaced by delta along each of steps.
func Step(coords []float64, delta float64, steps ...int) []float64 {
	var c = make([]float64, len(coords))
	copy(c, coords)
	for _, v := range steps {
		if v < 0 {
			v = -1 * v
			c[v-1] = c[v-1] - delta
		} else {
			c[v-1] += delta
		}
	}
	return c
}

func HashName() string {
	var h maphash.Hash
	h.SetSeed(maphash.MakeSeed())
	return "job" + strconv.FormatUint(h.Sum64(), 16)
}

// Derivative returns the jobs of the order-th central difference along
// coordinate i (1-based).
func Derivative(order, i int) []Job {
	stencil := Central(order)
	jobs := make([]Job, 0, len(stencil.Terms))
	for _, t := range stencil.Terms {
		job := Job{Coeff: t.Coeff, Name: HashName(), Index: []int{i}}
		switch {
		case t.Step == 0:
			job.Name = "E0"
		case t.Step > 0:
			for n := 0; n < t.Step; n++ {
				job.Steps = append(job.Steps, i)
			}
		default:
			for n := 0; n < -t.Step; n++ {
				job.Steps = append(job.Steps, -i)
			}
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// BuildJobList returns one group of first-derivative jobs per coordinate.
func BuildJobList(ncoords int) (joblist [][]Job) {
	for i := 1; i <= ncoords; i++ {
		joblist = append(joblist, Derivative(1, i))
	}
	return
}

// pending collects pointers to the jobs that need an evaluation, leaving
// out the reference point.
func pending(groups [][]Job) []*Job {
	var out []*Job
	for g := range groups {
		for j := range groups[g] {
			if groups[g][j].Name != "E0" {
				out = append(out, &groups[g][j])
			}
		}
	}
	return out
}
