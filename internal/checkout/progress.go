package checkout

// ProgressState is the display state reported to the client while a
// verification is in flight. Linear, no backward moves, no retry: a
// failed verification means the user restarts checkout.
type ProgressState string

const (
	StateVerifying       ProgressState = "verifying"
	StatePaymentVerified ProgressState = "payment_verified"
	StateOrderPlaced     ProgressState = "order_placed"
	StateFailed          ProgressState = "failed"
)

type Progress struct {
	state ProgressState
}

func NewProgress() *Progress {
	return &Progress{state: StateVerifying}
}

func (p *Progress) State() ProgressState {
	return p.state
}

func (p *Progress) Terminal() bool {
	return p.state == StateOrderPlaced || p.state == StateFailed
}

// Advance moves one step forward along the happy path. Advancing a
// terminal progress is a no-op.
func (p *Progress) Advance() {
	switch p.state {
	case StateVerifying:
		p.state = StatePaymentVerified
	case StatePaymentVerified:
		p.state = StateOrderPlaced
	}
}

// Fail moves to the failed state from any non-terminal state.
func (p *Progress) Fail() {
	if !p.Terminal() {
		p.state = StateFailed
	}
}
