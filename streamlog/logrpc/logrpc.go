// Package logrpc fixes the JSON-RPC 2.0 surface the log daemon serves
// and the remote client consumes. Both sides share these types so the
// wire shape can only change in one place.
package logrpc

// Method names, all under the log namespace.
const (
	MethodCreateScope       = "log.create_scope"
	MethodCreateStream      = "log.create_stream"
	MethodCreateReaderGroup = "log.create_reader_group"
	MethodOpenReader        = "log.open_reader"
	MethodOpenWriter        = "log.open_writer"
	MethodPoll              = "log.poll"
	MethodAck               = "log.ack"
	MethodDetach            = "log.detach"
	MethodAppend            = "log.append"
	MethodSearch            = "log.search"
)

type CreateScopeParams struct {
	Scope string `json:"scope"`
}

type CreateStreamParams struct {
	Scope  string `json:"scope"`
	Stream string `json:"stream"`
}

type CreateReaderGroupParams struct {
	Scope  string `json:"scope"`
	Stream string `json:"stream"`
	Group  string `json:"group"`
}

// CreatedResult reports whether a provisioning call actually created
// anything. Recreating an existing entity is not an error.
type CreatedResult struct {
	Created bool `json:"created"`
}

type OpenReaderParams struct {
	Scope    string `json:"scope"`
	Stream   string `json:"stream"`
	Group    string `json:"group"`
	ReaderID string `json:"reader_id"`
}

// OpenReaderResult hands back the server side handle every poll, ack
// and detach of this reader must present.
type OpenReaderResult struct {
	Handle string `json:"handle"`
}

type OpenWriterParams struct {
	Scope  string `json:"scope"`
	Stream string `json:"stream"`
}

type PollParams struct {
	Handle string `json:"handle"`
	// WaitMS asks the server to hold the poll open this long before
	// answering empty. The server clamps it to its own bound.
	WaitMS int `json:"wait_ms,omitempty"`
}

// Event mirrors streamlog.Event. Payload travels as base64, the
// standard encoding of []byte in JSON.
type Event struct {
	Seq     uint64 `json:"seq"`
	Payload []byte `json:"payload"`
}

type PollResult struct {
	Events []Event `json:"events"`
}

type AckParams struct {
	Handle string `json:"handle"`
	UpTo   uint64 `json:"up_to"`
}

type DetachParams struct {
	Handle string `json:"handle"`
}

type AppendParams struct {
	Scope   string `json:"scope"`
	Stream  string `json:"stream"`
	Payload []byte `json:"payload"`
}

type AppendResult struct {
	Seq uint64 `json:"seq"`
}

type SearchParams struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type Hit struct {
	Scope  string `json:"scope"`
	Stream string `json:"stream"`
	Seq    uint64 `json:"seq"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type SearchResult struct {
	Hits []Hit `json:"hits"`
}
