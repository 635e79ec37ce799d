package node

import (
	"time"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/telemetry"
	"github.com/mosaicnetworks/murmur/src/workload"
	"github.com/sirupsen/logrus"
)

// processLine decodes one inbound record and dispatches it. Faults are logged
// and the record dropped; nothing here stops the node.
func (n *Node) processLine(line []byte) {
	e, err := n.codec.Decode(line)
	if err != nil {
		n.drop(telemetry.DropDecode)
		n.logger.WithError(err).WithField("line", string(line)).Warn("Dropping record")
		return
	}

	n.received.Inc()
	telemetry.MessagesReceived.WithLabelValues(e.Type()).Inc()

	start := time.Now()
	n.dispatch(e)
	telemetry.HandleDuration.WithLabelValues(e.Type()).Observe(time.Since(start).Seconds())
}

// dispatch routes bootstrap payloads to init and everything else to the
// workload. Replies are addressed back to the sender and correlated with the
// request's msg_id.
func (n *Node) dispatch(e message.Envelope) {
	switch p := e.Body.Payload.(type) {
	case message.Init:
		n.init(e, p)
		return
	case message.InitOk:
		// nodes never send init to each other
		n.logger.WithField("src", e.Src).Debug("Ignoring init_ok")
		return
	}

	fields := logrus.Fields{
		"type": e.Type(),
		"src":  e.Src,
	}
	if e.Body.MsgID != nil {
		fields["msg_id"] = *e.Body.MsgID
	}

	if n.getState() != Running {
		n.drop(telemetry.DropSequence)
		err := common.NewFault(common.SequenceFault, "%s received in state %s", e.Type(), n.getState())
		n.logger.WithError(err).WithFields(fields).Warn("Ignoring message")
		return
	}

	ctx := &workload.Context{
		Runtime: n.runtime.Load(),
		Msg:     e,
		Logger:  n.logger.WithFields(fields),
	}

	res := n.workload.Handle(e.Body.Payload, ctx)

	switch res.Kind() {
	case workload.ReplyResult:
		reply, _ := res.Payload()
		n.send(e.Reply(reply))
	case workload.NoReplyResult:
	case workload.UnexpectedResult:
		n.drop(telemetry.DropUnexpected)
		err := common.NewFault(common.LogicFault, "%s", res.Reason())
		n.logger.WithError(err).WithFields(fields).Error("Dropping message")
	}
}
