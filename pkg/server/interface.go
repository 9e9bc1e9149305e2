/*
Package server exposes a trained suggestion engine over msgpack IPC and HTTP.

# IPC

The IPC server reads a stream of msgpack maps from stdin and writes one
msgpack map per request to stdout. Logs go to stderr. A ready message is
sent first:

	{"status": "ready"}

Suggestion requests carry the context word, the prefix being typed and an
optional limit:

	{"id": "req_001", "c": "machine", "p": "le", "l": 5}

The response lists words with their transition probability, the count and
the time taken in microseconds:

	{"id": "req_001", "s": [{"w": "learning", "p": 0.75}], "c": 1, "t": 38}

Other operations are selected with an action field:

	{"id": "st_1", "action": "stats"}
	{"id": "tr_1", "action": "train", "text": "machine learning is fun"}

Failures are reported with an error message and a status code: 400 for an
invalid request, 429 when the rate limit is hit, 500 otherwise.

	{"id": "req_002", "e": "prefix longer than 60 characters", "c": 400}

# HTTP

The same operations are served as JSON by gin:

	GET  /v1/suggest?context=machine&prefix=le&limit=5
	GET  /v1/stats
	POST /v1/train
	GET  /healthz
*/
package server

import "github.com/bastiangx/wordchain/pkg/suggest"

// Actions understood by the IPC server. An empty action is a suggestion request.
const (
	ActionSuggest = ""
	ActionStats   = "stats"
	ActionTrain   = "train"
)

// Request is any IPC request. Fields that do not apply to the action are ignored.
type Request struct {
	ID      string `msgpack:"id"`
	Action  string `msgpack:"action,omitempty"`
	Context string `msgpack:"c,omitempty"`
	Prefix  string `msgpack:"p"`
	Limit   int    `msgpack:"l,omitempty"`
	Text    string `msgpack:"text,omitempty"`
}

// SuggestResponse answers a suggestion request.
type SuggestResponse struct {
	ID          string               `msgpack:"id" json:"id,omitempty"`
	Context     string               `msgpack:"-" json:"context"`
	Prefix      string               `msgpack:"-" json:"prefix"`
	Suggestions []suggest.Suggestion `msgpack:"s" json:"suggestions"`
	Count       int                  `msgpack:"c" json:"count"`
	TimeTaken   int64                `msgpack:"t" json:"time_us"`
}

// StatsResponse answers a stats request.
type StatsResponse struct {
	ID     string         `msgpack:"id" json:"id,omitempty"`
	Status string         `msgpack:"status" json:"status"`
	Stats  map[string]int `msgpack:"stats" json:"stats"`
}

// TrainResponse reports the outcome of retraining.
type TrainResponse struct {
	ID         string `msgpack:"id" json:"id,omitempty"`
	Status     string `msgpack:"status" json:"status"`
	Tokens     int    `msgpack:"tokens" json:"tokens"`
	Vocabulary int    `msgpack:"vocabulary" json:"vocabulary"`
	Pairs      int    `msgpack:"pairs" json:"pairs"`
	TimeTaken  int64  `msgpack:"t" json:"time_us"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id" json:"id,omitempty"`
	Error string `msgpack:"e" json:"error"`
	Code  int    `msgpack:"c" json:"code"`
}
