// Package mail delivers the welcome/farewell notifications. Sends are
// best-effort: handlers enqueue a message and move on, and a failed or
// dropped send only ever produces a log line.
package mail

import (
	"fmt"
	"log"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender performs the actual delivery.
type Sender interface {
	Send(msg Message) error
}

// Dispatcher hands messages to a single background worker. Enqueue never
// blocks the request path: when the buffer is full the message is dropped
// with a log line instead.
type Dispatcher struct {
	sender Sender
	jobs   chan Message
	done   chan struct{}
}

func NewDispatcher(sender Sender, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}

	d := &Dispatcher{
		sender: sender,
		jobs:   make(chan Message, buffer),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for msg := range d.jobs {
		if err := d.sender.Send(msg); err != nil {
			log.Printf("Error sending email to=%s subject=%q: %v", msg.To, msg.Subject, err)
		}
	}
}

// Enqueue schedules a message for delivery without waiting on the result.
func (d *Dispatcher) Enqueue(msg Message) {
	select {
	case d.jobs <- msg:
	default:
		log.Printf("Dropping email to=%s subject=%q: dispatch queue full", msg.To, msg.Subject)
	}
}

// Close drains outstanding messages and stops the worker.
func (d *Dispatcher) Close() {
	close(d.jobs)
	<-d.done
}

// Welcome is the signup notification.
func Welcome(email, name string) Message {
	return Message{
		To:      email,
		Subject: "Welcome To Task Manager App!",
		Text:    fmt.Sprintf("Welcome to the Task Manager App, %s. Let me know how you get along with the app.", name),
		HTML:    fmt.Sprintf("<strong>Hi %s, welcome to the Task Manager App!</strong>", name),
	}
}

// Farewell is the account-cancellation notification.
func Farewell(email, name string) Message {
	return Message{
		To:      email,
		Subject: fmt.Sprintf("Good Bye, %s.", name),
		Text:    fmt.Sprintf("Good bye, %s. Sorry to see you go, hope to see you again soon.", name),
		HTML:    fmt.Sprintf("<strong>Good bye, %s. Sorry to see you go!</strong>", name),
	}
}
