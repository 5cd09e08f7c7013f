package main

import (
	"os"

	"github.com/btcsuite/btclog"

	"github.com/metailurini/ordered/btree"
	"github.com/metailurini/ordered/rbtree"
	"github.com/metailurini/ordered/skiplist"
	"github.com/metailurini/ordered/sortedset"
	"github.com/metailurini/ordered/treap"
	"github.com/metailurini/ordered/trie"
)

var (
	// backendLog is the logging backend used to create all subsystem
	// loggers.
	backendLog = btclog.NewBackend(os.Stdout)

	log     = backendLog.Logger("MAIN")
	btreLog = backendLog.Logger("BTRE")
	rbtrLog = backendLog.Logger("RBTR")
	skipLog = backendLog.Logger("SKIP")
	sortLog = backendLog.Logger("SORT")
	trepLog = backendLog.Logger("TREP")
	trieLog = backendLog.Logger("TRIE")
)

func init() {
	btree.UseLogger(btreLog)
	rbtree.UseLogger(rbtrLog)
	skiplist.UseLogger(skipLog)
	sortedset.UseLogger(sortLog)
	treap.UseLogger(trepLog)
	trie.UseLogger(trieLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"MAIN": log,
	"BTRE": btreLog,
	"RBTR": rbtrLog,
	"SKIP": skipLog,
	"SORT": sortLog,
	"TREP": trepLog,
	"TRIE": trieLog,
}

// setLogLevels sets the log level for all subsystem loggers.
func setLogLevels(level btclog.Level) {
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
}
