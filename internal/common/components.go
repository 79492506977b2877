package common

const (
	ComponentIndexer     = "indexer"
	ComponentUpstream    = "upstream"
	ComponentUndoLog     = "undo-log"
	ComponentStore       = "store"
	ComponentReorg       = "reorg"
	ComponentBlockSource = "block-source"
	ComponentMaintenance = "maintenance"
	ComponentAPI         = "api"
	ComponentConsumer    = "consumer"
)

var AllComponents = map[string]struct{}{
	ComponentIndexer:     {},
	ComponentUpstream:    {},
	ComponentUndoLog:     {},
	ComponentStore:       {},
	ComponentReorg:       {},
	ComponentBlockSource: {},
	ComponentMaintenance: {},
	ComponentAPI:         {},
	ComponentConsumer:    {},
}
