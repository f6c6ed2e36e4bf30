package steps

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liuxd6825/steplog/intercept"
)

// Step is a finished step.
type Step struct {
	ID       uuid.UUID
	ParentID uuid.UUID
	Depth    int
	Title    string
	Location *intercept.Location
	Start    time.Time
	End      time.Time
	Err      error
}

// Duration returns how long the step ran.
func (s Step) Duration() time.Duration { return s.End.Sub(s.Start) }

// Failed reports whether the step's body returned an error.
func (s Step) Failed() bool { return s.Err != nil }

// Recorder keeps every step in memory. Steps started while another step's
// body runs are its children. Steps are listed in the order they started.
type Recorder struct {
	now func() time.Time

	mu    sync.Mutex
	steps []*Step
	open  []uuid.UUID
}

var _ intercept.Stepper = &Recorder{}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Step implements intercept.Stepper.
func (r *Recorder) Step(title string, loc *intercept.Location, body func() ([]any, error)) ([]any, error) {
	s := r.begin(title, loc)
	out, err := body()
	r.end(s, err)
	return out, err
}

func (r *Recorder) begin(title string, loc *intercept.Location) *Step {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Step{
		ID:       uuid.New(),
		Depth:    len(r.open),
		Title:    title,
		Location: loc,
		Start:    r.now(),
	}
	if n := len(r.open); n > 0 {
		s.ParentID = r.open[n-1]
	}
	r.steps = append(r.steps, s)
	r.open = append(r.open, s.ID)
	return s
}

func (r *Recorder) end(s *Step, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.End = r.now()
	s.Err = err
	for i := len(r.open) - 1; i >= 0; i-- {
		if r.open[i] == s.ID {
			r.open = append(r.open[:i], r.open[i+1:]...)
			break
		}
	}
}

// Steps returns copies of the recorded steps.
func (r *Recorder) Steps() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Step, len(r.steps))
	for i, s := range r.steps {
		out[i] = *s
	}
	return out
}

// Titles returns the titles of the recorded steps.
func (r *Recorder) Titles() []string {
	steps := r.Steps()
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Title
	}
	return out
}

// Failed returns the steps whose body returned an error.
func (r *Recorder) Failed() []Step {
	var out []Step
	for _, s := range r.Steps() {
		if s.Failed() {
			out = append(out, s)
		}
	}
	return out
}

// Reset forgets every recorded step.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = nil
	r.open = nil
}
