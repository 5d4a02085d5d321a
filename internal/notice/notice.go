// Package notice is the explicit notification channel between the snapping
// engine and whatever presents it: float tips next to the cursor, the status
// bar prompt, the numeric input box and snap-type changes.
//
// Delivery is synchronous, in subscription order, on the caller's goroutine.
package notice

import (
	"sort"
	"sync"

	"github.com/dshills/draftsnap/internal/i18n"
)

// Topic identifies the kind of notice.
type Topic int

const (
	TopicFloatTip Topic = iota
	TopicClearFloatTip
	TopicStatusTip
	TopicClearStatusTip
	TopicShowInput
	TopicClearInput
	TopicSnapTypeChanged
)

var topicNames = [...]string{
	TopicFloatTip:        "float-tip",
	TopicClearFloatTip:   "clear-float-tip",
	TopicStatusTip:       "status-tip",
	TopicClearStatusTip:  "clear-status-tip",
	TopicShowInput:       "show-input",
	TopicClearInput:      "clear-input",
	TopicSnapTypeChanged: "snap-type-changed",
}

// String returns the topic name.
func (t Topic) String() string {
	if t >= 0 && int(t) < len(topicNames) {
		return topicNames[t]
	}
	return "unknown"
}

// Level is the severity of a tip.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Validation is the result of validating typed input.
// A zero Err means the input was accepted.
type Validation struct {
	Err  i18n.Key
	Args []any
}

// OK reports whether the input was accepted.
func (v Validation) OK() bool { return v.Err == "" }

// Invalid returns a failed validation.
func Invalid(err i18n.Key, args ...any) Validation {
	return Validation{Err: err, Args: args}
}

// InputRequest asks the presentation layer for a line of text.
// Validate is called with the submitted text; on success the requester has
// already consumed the value and the input box should close.
type InputRequest struct {
	Initial  string
	Validate func(text string) Validation
}

// Notice is one message on the channel.
type Notice struct {
	Topic   Topic
	Level   Level
	Message i18n.Key
	Args    []any

	// Text is literal text for tips that are not message keys.
	Text string

	// Input is set for TopicShowInput.
	Input *InputRequest

	// SnapTypes is the new snap-type bit mask for TopicSnapTypeChanged.
	SnapTypes uint32
}

// Observer receives notices.
type Observer func(n Notice)

// Subscription represents an active observer subscription.
type Subscription struct {
	id      uint64
	channel *Channel
}

// Unsubscribe removes this subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.channel != nil {
		s.channel.unsubscribe(s.id)
	}
}

type subscriber struct {
	topics   map[Topic]bool
	observer Observer
}

// Channel delivers notices to subscribers.
type Channel struct {
	mu     sync.RWMutex
	subs   map[uint64]subscriber
	nextID uint64
}

// NewChannel creates an empty channel.
func NewChannel() *Channel {
	return &Channel{subs: make(map[uint64]subscriber)}
}

// Subscribe registers observer for the given topics, or for every topic
// when none are given.
func (c *Channel) Subscribe(observer Observer, topics ...Topic) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	var set map[Topic]bool
	if len(topics) > 0 {
		set = make(map[Topic]bool, len(topics))
		for _, t := range topics {
			set[t] = true
		}
	}
	c.nextID++
	c.subs[c.nextID] = subscriber{topics: set, observer: observer}
	return &Subscription{id: c.nextID, channel: c}
}

func (c *Channel) unsubscribe(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subs, id)
}

// Subscribers returns the number of active subscriptions.
func (c *Channel) Subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}

// Publish delivers n to every matching subscriber in subscription order.
func (c *Channel) Publish(n Notice) {
	c.mu.RLock()
	ids := make([]uint64, 0, len(c.subs))
	for id, s := range c.subs {
		if s.topics == nil || s.topics[n.Topic] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = c.subs[id].observer
	}
	c.mu.RUnlock()

	for _, obs := range observers {
		obs(n)
	}
}

// ShowFloatTip shows a tip next to the cursor.
func (c *Channel) ShowFloatTip(level Level, msg i18n.Key, args ...any) {
	c.Publish(Notice{Topic: TopicFloatTip, Level: level, Message: msg, Args: args})
}

// ShowFloatText shows literal text next to the cursor.
func (c *Channel) ShowFloatText(level Level, text string) {
	c.Publish(Notice{Topic: TopicFloatTip, Level: level, Text: text})
}

// ClearFloatTip hides the cursor tip.
func (c *Channel) ClearFloatTip() {
	c.Publish(Notice{Topic: TopicClearFloatTip})
}

// ShowStatusTip sets the status bar prompt.
func (c *Channel) ShowStatusTip(msg i18n.Key, args ...any) {
	c.Publish(Notice{Topic: TopicStatusTip, Message: msg, Args: args})
}

// ClearStatusTip clears the status bar prompt.
func (c *Channel) ClearStatusTip() {
	c.Publish(Notice{Topic: TopicClearStatusTip})
}

// ShowInput opens the numeric input box.
func (c *Channel) ShowInput(req InputRequest) {
	c.Publish(Notice{Topic: TopicShowInput, Input: &req})
}

// ClearInput closes the numeric input box.
func (c *Channel) ClearInput() {
	c.Publish(Notice{Topic: TopicClearInput})
}

// SnapTypeChanged announces a new snap-type mask.
func (c *Channel) SnapTypeChanged(mask uint32) {
	c.Publish(Notice{Topic: TopicSnapTypeChanged, SnapTypes: mask})
}
