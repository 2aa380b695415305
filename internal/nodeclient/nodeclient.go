// Package nodeclient fetches a transaction's raw inputs and outputs
// from an external collaborator, so the engine never has to know
// whether that data came from a full node's RPC interface or a public
// block explorer's REST API. Grounded on the teacher's
// internal/node_client package.
package nodeclient

import "context"

// InputRef is one spent output referenced by a transaction, as
// reported by the upstream collaborator, before it is folded into a
// txrecord.Builder.
type InputRef struct {
	ID     string
	Amount int64 // satoshis
}

// OutputRef is one output created by a transaction.
type OutputRef struct {
	ID     string
	Amount int64 // satoshis
}

// TxData is everything the engine needs about a transaction: its
// inputs and outputs, each tagged with a stable id and satoshi value.
type TxData struct {
	TxID    string
	Inputs  []InputRef
	Outputs []OutputRef
}

// Fetcher resolves a transaction id to its inputs and outputs. It is
// the sole seam between txflow and the outside network — every
// implementation must be safe for concurrent use since callers may
// prefetch several transactions in parallel.
type Fetcher interface {
	FetchTx(ctx context.Context, txID string) (*TxData, error)
}
