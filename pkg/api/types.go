package api

import "time"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status        string    `json:"status"`
	State         string    `json:"state"`
	Timestamp     time.Time `json:"timestamp"`
	IndexedHeight *uint64   `json:"indexed_height,omitempty"`
	UpstreamTip   *uint64   `json:"upstream_tip,omitempty"`
	SourceTip     *uint64   `json:"source_tip,omitempty"`
}

// StatusResponse describes the indexing loop, every consumer and the
// retained undo range.
type StatusResponse struct {
	State         string           `json:"state"`
	IndexedHeight *uint64          `json:"indexed_height,omitempty"`
	UpstreamTip   *uint64          `json:"upstream_tip,omitempty"`
	SourceTip     *uint64          `json:"source_tip,omitempty"`
	LastBlockAt   *time.Time       `json:"last_block_at,omitempty"`
	LastError     string           `json:"last_error,omitempty"`
	Consumers     []ConsumerStatus `json:"consumers"`
	Undo          UndoRange        `json:"undo"`
}

// ConsumerStatus is the indexed height of one consumer. IndexedHeight is
// absent until the consumer reaches its genesis height.
type ConsumerStatus struct {
	Name          string  `json:"name"`
	GenesisHeight uint64  `json:"genesis_height"`
	IndexedHeight *uint64 `json:"indexed_height,omitempty"`
}

// UndoRange is the span of heights that can still be rolled back.
type UndoRange struct {
	Window uint64  `json:"window"`
	Oldest *uint64 `json:"oldest,omitempty"`
	Tip    *uint64 `json:"tip,omitempty"`
}

// ValueResponse is a committed value of the primary store.
type ValueResponse struct {
	Key      string `json:"key"`
	Encoding string `json:"encoding"`
	Value    string `json:"value"`
}

// ListResponse holds the elements of a "{key}/length" + "{key}/{idx}" list.
type ListResponse struct {
	Key      string   `json:"key"`
	Encoding string   `json:"encoding"`
	Length   int      `json:"length"`
	Values   []string `json:"values"`
}

// UndoResponse is the audit view of one retained height.
type UndoResponse struct {
	Height      uint64       `json:"height"`
	BlockHash   string       `json:"block_hash"`
	CommittedAt time.Time    `json:"committed_at"`
	Records     []UndoRecord `json:"records"`
}

// UndoRecord is one reversible mutation. Prior is absent when the key did
// not exist before the mutation.
type UndoRecord struct {
	Seq   uint32  `json:"seq"`
	Op    string  `json:"op"`
	Key   string  `json:"key"`
	Prior *string `json:"prior,omitempty"`
}
