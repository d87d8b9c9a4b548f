package api

import "sync"

// Pending is the single outcome of one Post. It resolves exactly once, with a
// Result or an error, and cannot be restarted or cancelled.
type Pending struct {
	done   chan struct{}
	once   sync.Once
	result Result
	err    error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Done is closed once the outcome is known.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the exchange completes. Every call returns the same outcome.
func (p *Pending) Wait() (Result, error) {
	<-p.done
	return p.result, p.err
}

func (p *Pending) resolve(r Result, err error) {
	p.once.Do(func() {
		p.result = r
		p.err = err
		close(p.done)
	})
}
