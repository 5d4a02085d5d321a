package notice

import (
	"sync"

	"github.com/dshills/draftsnap/internal/i18n"
)

// Recorder tracks the visible state a presentation layer would show:
// the current tips and the open input request. It also keeps a log of
// every topic received.
type Recorder struct {
	mu sync.Mutex

	floatTip   string
	statusTip  string
	input      *InputRequest
	inputError string
	log        []Topic
	sub        *Subscription
}

// NewRecorder subscribes a recorder to c.
func NewRecorder(c *Channel) *Recorder {
	r := &Recorder{}
	r.sub = c.Subscribe(r.observe)
	return r
}

// Close unsubscribes the recorder.
func (r *Recorder) Close() {
	r.sub.Unsubscribe()
}

func (r *Recorder) observe(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log = append(r.log, n.Topic)
	switch n.Topic {
	case TopicFloatTip:
		r.floatTip = render(n)
	case TopicClearFloatTip:
		r.floatTip = ""
	case TopicStatusTip:
		r.statusTip = render(n)
	case TopicClearStatusTip:
		r.statusTip = ""
	case TopicShowInput:
		r.input = n.Input
		r.inputError = ""
	case TopicClearInput:
		r.input = nil
		r.inputError = ""
	}
}

func render(n Notice) string {
	if n.Text != "" {
		return n.Text
	}
	return i18n.Translate(n.Message, n.Args...)
}

// FloatTip returns the visible cursor tip.
func (r *Recorder) FloatTip() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.floatTip
}

// StatusTip returns the visible status prompt.
func (r *Recorder) StatusTip() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusTip
}

// InputOpen reports whether an input request is pending.
func (r *Recorder) InputOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.input != nil
}

// InputError returns the error shown under the input box.
func (r *Recorder) InputError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inputError
}

// Submit sends text to the pending input request. It returns the validation
// result and false when no input is open. A failed validation keeps the
// request open and records the error.
func (r *Recorder) Submit(text string) (Validation, bool) {
	r.mu.Lock()
	req := r.input
	r.mu.Unlock()
	if req == nil || req.Validate == nil {
		return Validation{}, false
	}

	// Validate may publish on the channel; the lock must not be held.
	res := req.Validate(text)

	r.mu.Lock()
	defer r.mu.Unlock()
	if res.OK() {
		if r.input == req {
			r.input = nil
		}
		r.inputError = ""
	} else {
		r.inputError = i18n.Translate(res.Err, res.Args...)
	}
	return res, true
}

// Count returns how many notices of topic were received.
func (r *Recorder) Count(topic Topic) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.log {
		if t == topic {
			n++
		}
	}
	return n
}
