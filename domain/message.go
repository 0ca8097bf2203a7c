// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable and validated at the wire boundary.
package domain

// Message is a single chat utterance as it travels through the log.
type Message struct {
	Sender string
	Text   string
}

func NewMessage(sender, text string) Message {
	return Message{Sender: sender, Text: text}
}

// From reports whether the message was authored by the given party.
// Sessions use it to suppress echo of their own appends.
func (m Message) From(sender string) bool {
	return m.Sender == sender
}
