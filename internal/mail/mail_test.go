package mail

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type captureSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (s *captureSender) Send(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *captureSender) messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	sender := &captureSender{}
	d := NewDispatcher(sender, 8)

	d.Enqueue(Welcome("james@gmail.com", "James"))
	d.Enqueue(Farewell("james@gmail.com", "James"))
	d.Close()

	sent := sender.messages()
	if assert.Len(t, sent, 2) {
		assert.Equal(t, "Welcome To Task Manager App!", sent[0].Subject)
		assert.Equal(t, "Good Bye, James.", sent[1].Subject)
		assert.Equal(t, "james@gmail.com", sent[0].To)
	}
}

func TestDispatcherSurvivesSendErrors(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	d := NewDispatcher(sender, 8)

	d.Enqueue(Welcome("a@b.c", "A"))
	d.Enqueue(Welcome("d@e.f", "D"))
	d.Close()

	// Both sends are attempted even though each one fails.
	assert.Len(t, sender.messages(), 2)
}

func TestEnqueueNeverBlocks(t *testing.T) {
	// A sender that blocks forever would hang Enqueue if it waited on the
	// buffer; instead overflow messages are dropped.
	blocked := make(chan struct{})
	t.Cleanup(func() { close(blocked) })

	d := NewDispatcher(senderFunc(func(Message) error {
		<-blocked
		return nil
	}), 1)

	for i := 0; i < 50; i++ {
		d.Enqueue(Message{To: "x@y.z", Subject: "s"})
	}
}

type senderFunc func(Message) error

func (f senderFunc) Send(msg Message) error { return f(msg) }

func TestMessageBodies(t *testing.T) {
	welcome := Welcome("james@gmail.com", "James")
	assert.Contains(t, welcome.Text, "James")
	assert.Contains(t, welcome.HTML, "James")

	farewell := Farewell("james@gmail.com", "James")
	assert.Contains(t, farewell.Text, "Sorry to see you go")
}
