package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoScript is returned by Fake when nothing is queued for a purpose
var ErrNoScript = errors.New("no scripted reply")

// Reply is one scripted Fake answer
type Reply struct {
	Text  string
	Err   error
	Delay time.Duration // waits before answering, honouring ctx
}

// Fake is a scripted completer for tests. Replies are queued per purpose
// and consumed in order; Respond handles anything unscripted.
type Fake struct {
	Respond func(context.Context, Request) (string, error)

	mu      sync.Mutex
	replies map[Purpose][]Reply
	calls   []Request
}

// NewFake creates an empty scripted completer
func NewFake() *Fake {
	return &Fake{replies: make(map[Purpose][]Reply)}
}

func (f *Fake) Name() string { return "fake" }

// Push queues replies for a purpose
func (f *Fake) Push(p Purpose, replies ...Reply) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[p] = append(f.replies[p], replies...)
	return f
}

// PushText queues plain-text replies for a purpose
func (f *Fake) PushText(p Purpose, texts ...string) *Fake {
	for _, t := range texts {
		f.Push(p, Reply{Text: t})
	}
	return f
}

// Calls returns a copy of every request received
func (f *Fake) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsFor returns the requests received for one purpose
func (f *Fake) CallsFor(p Purpose) []Request {
	var out []Request
	for _, r := range f.Calls() {
		if r.Purpose == p {
			out = append(out, r)
		}
	}
	return out
}

func (f *Fake) Complete(ctx context.Context, req Request) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	var (
		reply    Reply
		scripted bool
	)
	if q := f.replies[req.Purpose]; len(q) > 0 {
		reply, scripted = q[0], true
		f.replies[req.Purpose] = q[1:]
	}
	respond := f.Respond
	f.mu.Unlock()

	if !scripted {
		if respond == nil {
			return "", wrap(f.Name(), req.Purpose, ErrNoScript)
		}
		text, err := respond(ctx, req)
		return text, wrap(f.Name(), req.Purpose, err)
	}

	if reply.Delay > 0 {
		timer := time.NewTimer(reply.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", wrap(f.Name(), req.Purpose, ctx.Err())
		case <-timer.C:
		}
	}
	if reply.Err != nil {
		return "", wrap(f.Name(), req.Purpose, reply.Err)
	}
	return reply.Text, nil
}
