// Package kafka implements an append-only commit log with per-key offsets and
// committed-offset tracking, in the style of a single Kafka broker.
//
// Offsets of a key form a dense sequence starting at 0. Committed offsets only
// move forward, and only for keys that already have a commit record: a commit
// on a key that was never committed is acknowledged but not recorded. The log
// is local to the node; nothing is replicated.
package kafka

import (
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/workload"
)

// Log is the state of the kafka workload.
type Log struct {
	workload.NoGossip

	logs    map[string][]uint64
	commits map[string]uint64
}

// New returns an empty Log.
func New() workload.Workload {
	return NewLog()
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{
		logs:    make(map[string][]uint64),
		commits: make(map[string]uint64),
	}
}

// Name implements workload.Workload.
func (l *Log) Name() string {
	return "kafka"
}

// Register implements workload.Workload.
func (l *Log) Register(r *message.Registry) {
	register(r)
}

// Handle implements workload.Workload.
func (l *Log) Handle(msg message.Payload, ctx *workload.Context) workload.Result {
	switch m := msg.(type) {
	case Send:
		return workload.Reply(SendOk{Offset: l.Append(m.Key, m.Msg)})
	case Poll:
		return workload.Reply(PollOk{Msgs: l.Poll(m.Offsets)})
	case CommitOffsets:
		l.Commit(m.Offsets)
		return workload.Reply(CommitOffsetsOk{})
	case ListCommittedOffsets:
		return workload.Reply(ListCommittedOffsetsOk{Offsets: l.Committed(m.Keys)})
	default:
		return workload.Unexpected(msg)
	}
}

// Append adds msg to the log of key and returns its offset.
func (l *Log) Append(key string, msg uint64) uint64 {
	l.logs[key] = append(l.logs[key], msg)
	return uint64(len(l.logs[key]) - 1)
}

// Poll returns, for each requested key that has entries at or after the
// requested offset, the [offset, msg] pairs in offset order.
func (l *Log) Poll(offsets map[string]uint64) map[string][][2]uint64 {
	res := make(map[string][][2]uint64)

	for key, start := range offsets {
		entries := l.logs[key]
		if start >= uint64(len(entries)) {
			continue
		}

		pairs := make([][2]uint64, 0, uint64(len(entries))-start)
		for i := start; i < uint64(len(entries)); i++ {
			pairs = append(pairs, [2]uint64{i, entries[i]})
		}
		res[key] = pairs
	}

	return res
}

// Commit raises the committed offset of every key that already has one. Keys
// without a commit record are ignored, and offsets never go down.
func (l *Log) Commit(offsets map[string]uint64) {
	for key, offset := range offsets {
		current, ok := l.commits[key]
		if ok && offset > current {
			l.commits[key] = offset
		}
	}
}

// Committed returns the committed offsets of the requested keys that have
// one.
func (l *Log) Committed(keys []string) map[string]uint64 {
	res := make(map[string]uint64)

	for _, key := range keys {
		if offset, ok := l.commits[key]; ok {
			res[key] = offset
		}
	}

	return res
}
