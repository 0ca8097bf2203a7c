package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"streamchat/commands"
	"streamchat/domain"
	"streamchat/session"
	"streamchat/wire"
)

type ChatScenarioSuite struct {
	BaseSuite
}

func TestChatScenarios(t *testing.T) {
	suite.Run(t, new(ChatScenarioSuite))
}

// captureSink collects what the session would display on a console.
type captureSink struct {
	events chan domain.Message
}

func newCaptureSink() *captureSink {
	return &captureSink{events: make(chan domain.Message, 16)}
}

func (c *captureSink) Display(_ context.Context, msg domain.Message) error {
	c.events <- msg
	return nil
}

func (c *captureSink) next(t *testing.T, within time.Duration) domain.Message {
	t.Helper()
	select {
	case msg := <-c.events:
		return msg
	case <-time.After(within):
		t.Fatal("no display event arrived in time")
		return domain.Message{}
	}
}

func (c *captureSink) quiet(t *testing.T, during time.Duration) {
	t.Helper()
	select {
	case msg := <-c.events:
		t.Fatalf("unexpected display event: %v", msg)
	case <-time.After(during):
	}
}

func (s *ChatScenarioSuite) TestGreetPassthroughAndSelfSuppression() {
	t := s.T()
	req := s.Require()
	ctx, cancel := context.WithTimeout(context.Background(), s.Config.ScenarioTimeout)
	defer cancel()

	daemon := s.StartDaemon(t)
	coords := session.Coordinates{Scope: "chat", Stream: "lobby"}

	// alex runs a full session: inbound and outbound loops over a real
	// websocket connection.
	alexClient := s.Connect(t, daemon, "alex")
	alexReader, alexWriter, err := session.Attach(ctx, alexClient, coords, "alex")
	req.NoError(err)

	sink := newCaptureSink()
	input := make(chan string)
	registry := commands.NewRegistry(s.Log).Register("greet", commands.Greet())
	sess := session.New(s.Log, session.Config{Identity: "alex"}, alexReader, alexWriter, registry, sink, input)

	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	// tim participates with his own connection and reader group.
	timClient := s.Connect(t, daemon, "tim")
	timReader, timWriter, err := session.Attach(ctx, timClient, coords, "tim")
	req.NoError(err)
	defer func() { _ = timReader.Close(ctx) }()

	// A command keyword is dispatched, never relayed verbatim: alex
	// sees the greet reply computed with tim as the sender.
	payload, err := wire.Encode(domain.NewMessage("tim", "greet"))
	req.NoError(err)
	_, err = timWriter.Append(ctx, payload)
	req.NoError(err)

	shown := sink.next(t, 5*time.Second)
	req.Equal("tim", shown.Sender)
	req.Equal("tim says hi!", shown.Text)

	// Plain text passes through unchanged.
	payload, err = wire.Encode(domain.NewMessage("tim", "see you at noon"))
	req.NoError(err)
	_, err = timWriter.Append(ctx, payload)
	req.NoError(err)

	shown = sink.next(t, 5*time.Second)
	req.Equal("tim", shown.Sender)
	req.Equal("see you at noon", shown.Text)

	// alex types a line: tim's group receives it, alex's own display
	// stays silent. tim's group replays from the stream start, so
	// tim's own appends come through first.
	input <- "Hello Tim!"
	msg := s.awaitMessageFrom(t, ctx, timReader, "alex")
	req.Equal("hello tim!", msg.Text) // outbound folds case before sending
	sink.quiet(t, 2*s.Config.PollTimeout)

	// Shutdown joins both loops within a poll window.
	sess.Stop()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(s.Config.PollTimeout + 2*time.Second):
		t.Fatal("session did not stop in time")
	}
}

func (s *ChatScenarioSuite) TestJokeCommandAgainstProvider() {
	t := s.T()
	req := s.Require()
	ctx, cancel := context.WithTimeout(context.Background(), s.Config.ScenarioTimeout)
	defer cancel()

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/random_ten", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"type":"general","setup":"Why do Go programmers stay calm?","punchline":"They handle their errors."}]`))
	}))
	defer provider.Close()

	daemon := s.StartDaemon(t)
	coords := session.Coordinates{Scope: "chat", Stream: "lobby"}

	alexClient := s.Connect(t, daemon, "alex")
	alexReader, alexWriter, err := session.Attach(ctx, alexClient, coords, "alex")
	req.NoError(err)

	sink := newCaptureSink()
	input := make(chan string)
	registry := commands.NewRegistry(s.Log).
		Register("joke", commands.NewJokeClient(provider.URL, 0).Handler())
	sess := session.New(s.Log, session.Config{Identity: "alex"}, alexReader, alexWriter, registry, sink, input)

	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	timClient := s.Connect(t, daemon, "tim")
	timReader, timWriter, err := session.Attach(ctx, timClient, coords, "tim")
	req.NoError(err)
	defer func() { _ = timReader.Close(ctx) }()

	payload, err := wire.Encode(domain.NewMessage("tim", "joke"))
	req.NoError(err)
	_, err = timWriter.Append(ctx, payload)
	req.NoError(err)

	shown := sink.next(t, 5*time.Second)
	req.Equal("tim", shown.Sender)
	req.Equal("Why do Go programmers stay calm?\nThey handle their errors.", shown.Text)

	sess.Stop()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(s.Config.PollTimeout + 2*time.Second):
		t.Fatal("session did not stop in time")
	}
}
