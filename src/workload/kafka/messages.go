package kafka

import "github.com/mosaicnetworks/murmur/src/message"

// Send appends Msg to the log identified by Key.
type Send struct {
	Key string `json:"key"`
	Msg uint64 `json:"msg"`
}

// SendOk returns the offset assigned to the appended message.
type SendOk struct {
	Offset uint64 `json:"offset"`
}

// Poll asks for the messages of each log, starting at the given offset.
type Poll struct {
	Offsets map[string]uint64 `json:"offsets"`
}

// PollOk returns [offset, message] pairs per log, in offset order.
type PollOk struct {
	Msgs map[string][][2]uint64 `json:"msgs"`
}

// CommitOffsets records how far a consumer has processed each log.
type CommitOffsets struct {
	Offsets map[string]uint64 `json:"offsets"`
}

// CommitOffsetsOk acknowledges a CommitOffsets.
type CommitOffsetsOk struct{}

// ListCommittedOffsets asks for the committed offsets of the given logs.
type ListCommittedOffsets struct {
	Keys []string `json:"keys"`
}

// ListCommittedOffsetsOk returns the committed offsets. Logs without a commit
// are left out.
type ListCommittedOffsetsOk struct {
	Offsets map[string]uint64 `json:"offsets"`
}

func (Send) Type() string                   { return "send" }
func (SendOk) Type() string                 { return "send_ok" }
func (Poll) Type() string                   { return "poll" }
func (PollOk) Type() string                 { return "poll_ok" }
func (CommitOffsets) Type() string          { return "commit_offsets" }
func (CommitOffsetsOk) Type() string        { return "commit_offsets_ok" }
func (ListCommittedOffsets) Type() string   { return "list_committed_offsets" }
func (ListCommittedOffsetsOk) Type() string { return "list_committed_offsets_ok" }

func register(r *message.Registry) {
	message.Register[Send](r)
	message.Register[SendOk](r)
	message.Register[Poll](r)
	message.Register[PollOk](r)
	message.Register[CommitOffsets](r)
	message.Register[CommitOffsetsOk](r)
	message.Register[ListCommittedOffsets](r)
	message.Register[ListCommittedOffsetsOk](r)
}
