package mailer

import (
	"context"
	"sync"
)

// Recorder keeps every mail it is asked to send. Set Err to make sends fail.
type Recorder struct {
	mu   sync.Mutex
	sent []Mail
	Err  error
}

func (r *Recorder) Send(_ context.Context, m Mail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, m)
	return nil
}

func (r *Recorder) Sent() []Mail {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Mail, len(r.sent))
	copy(out, r.sent)
	return out
}
