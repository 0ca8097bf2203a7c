// Package wire implements the JSON framing shared by every party on a
// chat stream. Each event payload carries one UTF-8 JSON object with a
// "sender" and a "message" field; anything else is malformed.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"streamchat/domain"
	"streamchat/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// envelope is the on-wire shape. Message is a pointer so that an absent
// key can be told apart from an empty string.
type envelope struct {
	Sender  string  `json:"sender" validate:"required"`
	Message *string `json:"message" validate:"required"`
}

// Encode renders the message as a single JSON object.
// A message without a sender never reaches the log.
func Encode(m domain.Message) ([]byte, error) {
	env := envelope{Sender: m.Sender, Message: &m.Text}
	if err := validate.Struct(env); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedMessage, err)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedMessage, err)
	}
	return data, nil
}

// Decode parses exactly one message. Trailing content after the object
// is malformed; use DecodeAll for concatenated batches.
func Decode(data []byte) (domain.Message, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	msg, err := decodeOne(dec)
	if err == io.EOF {
		return domain.Message{}, fmt.Errorf("%w: empty payload", errors.ErrMalformedMessage)
	}
	if err != nil {
		return domain.Message{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return domain.Message{}, fmt.Errorf("%w: trailing data after message", errors.ErrMalformedMessage)
	}
	return msg, nil
}

// DecodeAll parses a batch of zero or more concatenated messages, the
// shape a poll produces when several appends land in one delivery.
// Whitespace between objects is tolerated. Any invalid element poisons
// the whole batch.
func DecodeAll(data []byte) ([]domain.Message, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var batch []domain.Message
	for {
		msg, err := decodeOne(dec)
		if err == io.EOF {
			return batch, nil
		}
		if err != nil {
			return nil, err
		}
		batch = append(batch, msg)
	}
}

func decodeOne(dec *json.Decoder) (domain.Message, error) {
	dec.DisallowUnknownFields()
	var env envelope
	if err := dec.Decode(&env); err != nil {
		if err == io.EOF {
			return domain.Message{}, io.EOF
		}
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrMalformedMessage, err)
	}
	if err := validate.Struct(env); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrMalformedMessage, err)
	}
	return domain.Message{Sender: env.Sender, Text: *env.Message}, nil
}
