// Package e2e runs whole-system scenarios: a real daemon on a real
// listener, real websocket connections, full chat sessions on top.
package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"

	"streamchat/domain"
	"streamchat/logd"
	"streamchat/observability"
	"streamchat/search"
	"streamchat/streamlog"
	"streamchat/streamlog/badgerlog"
	"streamchat/streamlog/remote"
	"streamchat/wire"
)

type BaseSuite struct {
	suite.Suite
	Config Config
	Log    *slog.Logger
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	s.Log = logs.GetLoggerFromLevel(slog.LevelError)
}

// Daemon is one in-process log daemon and everything needed to reach
// and tear it down.
type Daemon struct {
	WsURL string
}

// StartDaemon boots a daemon on an httptest listener. Storage lives in
// per-test temp directories, cleanup is registered on the test.
func (s *BaseSuite) StartDaemon(t *testing.T) Daemon {
	t.Helper()
	s.banner(t, "log daemon")

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	s.Require().NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	store := badgerlog.NewStore(db, s.Log, badgerlog.Options{PollTimeout: s.Config.PollTimeout})
	t.Cleanup(func() { _ = store.Close() })

	index, err := search.Open(t.TempDir(), s.Log)
	s.Require().NoError(err)
	t.Cleanup(func() { _ = index.Close() })

	obs := observability.NewManager(s.Log)
	server := logd.NewServer(s.Log, store, index, obs, logd.Options{MaxPollWait: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = logd.NewIndexWorker(s.Log, index, server).Run(ctx) }()

	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	return Daemon{WsURL: "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"}
}

// Connect dials one participant connection to the daemon.
func (s *BaseSuite) Connect(t *testing.T, d Daemon, name string) *remote.Client {
	t.Helper()
	s.banner(t, "participant "+name)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := remote.Dial(ctx, d.WsURL, s.Log)
	s.Require().NoError(err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// awaitEvents polls the reader until a batch arrives, acknowledges it
// and returns the payloads.
func (s *BaseSuite) awaitEvents(t *testing.T, ctx context.Context, reader streamlog.Reader) [][]byte {
	t.Helper()
	for {
		events, err := reader.ReadNext(ctx)
		s.Require().NoError(err)
		if len(events) == 0 {
			continue
		}
		s.Require().NoError(reader.Ack(ctx, events[len(events)-1].Seq))
		payloads := make([][]byte, 0, len(events))
		for _, event := range events {
			payloads = append(payloads, event.Payload)
		}
		return payloads
	}
}

// awaitMessageFrom drains the reader until a decodable message from
// the wanted sender shows up.
func (s *BaseSuite) awaitMessageFrom(t *testing.T, ctx context.Context, reader streamlog.Reader, sender string) domain.Message {
	t.Helper()
	for {
		for _, payload := range s.awaitEvents(t, ctx, reader) {
			msg, err := wire.Decode(payload)
			if err != nil {
				continue
			}
			if msg.Sender == sender {
				return msg
			}
		}
	}
}

// banner prints a colorized step header in the test log.
func (s *BaseSuite) banner(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}
