package workbench

// Progress is the cosmetic progress indicator: it creeps toward a cap while
// a run is alive and jumps to 100 or 0 at the end. It does not parse output.
type Progress struct {
	value int
	step  int
	cap   int
}

// NewProgress creates an indicator advancing step per tick up to limit.
func NewProgress(step, limit int) *Progress {
	if step <= 0 {
		step = 5
	}
	if limit <= 0 || limit > 100 {
		limit = 90
	}
	return &Progress{step: step, cap: limit}
}

// Tick advances the value without passing the cap.
func (p *Progress) Tick() int {
	p.value += p.step
	if p.value > p.cap {
		p.value = p.cap
	}
	return p.value
}

// Finish sets 100 on success and 0 otherwise.
func (p *Progress) Finish(success bool) int {
	if success {
		p.value = 100
	} else {
		p.value = 0
	}
	return p.value
}

// Reset returns to 0.
func (p *Progress) Reset() { p.value = 0 }

// Value returns the current percentage.
func (p *Progress) Value() int { return p.value }

// Fraction returns the value in [0, 1] for progress bar widgets.
func (p *Progress) Fraction() float64 { return float64(p.value) / 100 }
