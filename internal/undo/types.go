package undo

// Op is the kind of primary store mutation an undo record reverses.
type Op string

const (
	OpPut    Op = "put"
	OpDelete Op = "delete"
)

// Record is one reversible mutation. Prior is nil when the key did not
// exist before the mutation; rollback then deletes the key.
type Record struct {
	Height uint64 `meddler:"height"`
	Seq    uint32 `meddler:"seq"`
	Key    []byte `meddler:"key"`
	Op     Op     `meddler:"op"`
	Prior  []byte `meddler:"prior,zstdblob"`
}

// PriorExists reports whether the key existed before the mutation.
func (r *Record) PriorExists() bool {
	return r.Prior != nil
}

// BlockMarker marks a height whose records are durably committed.
type BlockMarker struct {
	Height      uint64 `meddler:"height" json:"height"`
	BlockHash   string `meddler:"block_hash" json:"block_hash"`
	RecordCount int    `meddler:"record_count" json:"record_count"`
	CommittedAt int64  `meddler:"committed_at" json:"committed_at"`
}

// Restorer applies reverse-ordered records to the primary store. All
// records must land in one atomic, durable write.
type Restorer interface {
	Restore(records []*Record) error
}

// RestorerFunc adapts a function to Restorer.
type RestorerFunc func(records []*Record) error

func (f RestorerFunc) Restore(records []*Record) error {
	return f(records)
}

const (
	recordTable = "undo_record"
	blockTable  = "undo_block"

	// metricsDB labels undo log queries in the shared db metrics
	metricsDB = "undo"
)
