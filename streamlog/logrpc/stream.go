package logrpc

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/coder/websocket"
	"github.com/sourcegraph/jsonrpc2"
)

// socketStream adapts coder/websocket to jsonrpc2.ObjectStream. One
// JSON object per text frame, writes serialized under a mutex.
type socketStream struct {
	conn *websocket.Conn
	mu   sync.Mutex // protects writes
}

// NewObjectStream wraps an accepted or dialed websocket connection for
// use with a jsonrpc2.Conn.
func NewObjectStream(conn *websocket.Conn) jsonrpc2.ObjectStream {
	return &socketStream{conn: conn}
}

func (s *socketStream) ReadObject(v interface{}) error {
	_, data, err := s.conn.Read(context.Background())
	if err != nil {
		// Normal close frames become EOF so jsonrpc2 shuts down
		// gracefully instead of reporting an error.
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			return io.EOF
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *socketStream) WriteObject(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Write(context.Background(), websocket.MessageText, data)
}

func (s *socketStream) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "")
}

var _ jsonrpc2.ObjectStream = (*socketStream)(nil)
