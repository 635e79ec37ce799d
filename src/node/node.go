package node

import (
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/net"
	"github.com/mosaicnetworks/murmur/src/peers"
	"github.com/mosaicnetworks/murmur/src/telemetry"
	"github.com/mosaicnetworks/murmur/src/workload"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Node defines a murmur node
type Node struct {
	state

	conf   *Config
	logger *logrus.Entry

	codec    *message.Codec
	trans    net.Transport
	netCh    <-chan []byte
	workload workload.Workload

	// runtime is nil until init. It is only written by the event loop, and
	// read concurrently by the stats getters.
	runtime atomic.Pointer[workload.Runtime]

	controlTimer *ControlTimer

	sigintCh     chan os.Signal
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	doneCh       chan struct{}
	running      atomic.Bool

	start        time.Time
	received     atomic.Uint64
	queued       atomic.Uint64
	dropped      atomic.Uint64
	gossipRounds atomic.Uint64
}

// NewNode is a factory method that returns a Node instance. The workload must
// be fresh; the codec must know the workload's payload types.
func NewNode(conf *Config,
	w workload.Workload,
	codec *message.Codec,
	trans net.Transport,
) *Node {
	node := Node{
		conf:         conf,
		logger:       conf.Logger.WithField("workload", w.Name()),
		codec:        codec,
		trans:        trans,
		netCh:        trans.Consumer(),
		workload:     w,
		controlTimer: NewControlTimer(conf.Clock),
		shutdownCh:   make(chan struct{}),
		doneCh:       make(chan struct{}),
		start:        conf.Clock.Now(),
	}

	if conf.HandleSignals {
		//Prepare sigintCh to relay SIGINT and SIGTERM system calls
		node.sigintCh = make(chan os.Signal, 1)
		signal.Notify(node.sigintCh, os.Interrupt, syscall.SIGTERM)
	}

	return &node
}

//RunAsync calls Run as a separate goroutine
func (n *Node) RunAsync() {
	n.logger.Debug("runasync")

	if !n.running.CompareAndSwap(false, true) {
		return
	}

	go n.run()
}

// Run invokes the main loop of the node. It returns once the node is
// Terminated, that is after the input ended or shutdown was requested, and
// every queued record was written. The returned error is the transport fault
// that stopped the node, if any.
func (n *Node) Run() error {
	if !n.running.CompareAndSwap(false, true) {
		return nil
	}

	return n.run()
}

func (n *Node) run() error {
	n.trans.Listen()

	//The ControlTimer stays idle until init
	go n.controlTimer.Run(0)

	err := n.loop()

	return n.drain(err)
}

// loop is the event loop. Inbound records, gossip ticks and shutdown
// triggers are handled one at a time, so workload state is never accessed
// concurrently.
func (n *Node) loop() error {
	for {
		select {
		case line, ok := <-n.netCh:
			if !ok {
				n.logger.Debug("Input closed")
				return nil
			}
			n.processLine(line)
		case <-n.controlTimer.Ticks():
			n.gossip()
		case err := <-n.trans.Fatal():
			return err
		case sig := <-n.sigintCh:
			n.logger.WithField("signal", sig).Debug("Reacting to signal")
			return nil
		case <-n.shutdownCh:
			return nil
		}
	}
}

// drain flushes the outbound queue and terminates the node.
func (n *Node) drain(cause error) error {
	n.setState(Draining)
	n.logger.Debug("DRAINING")

	n.controlTimer.Shutdown()

	if n.sigintCh != nil {
		signal.Stop(n.sigintCh)
	}

	err := n.trans.Close()
	if cause != nil {
		err = cause
	}

	n.setState(Terminated)
	close(n.doneCh)

	if err != nil {
		n.logger.WithError(err).Error("Terminated")
	} else {
		n.logger.Debug("Terminated")
	}

	return err
}

// Shutdown requests a graceful shutdown and waits until the node is
// Terminated.
func (n *Node) Shutdown() {
	n.shutdownOnce.Do(func() {
		n.conf.Logger.Debug("Shutdown")
		close(n.shutdownCh)
	})

	if n.running.Load() {
		<-n.doneCh
	}
}

// Done is closed once the node is Terminated.
func (n *Node) Done() <-chan struct{} {
	return n.doneCh
}

// State returns the current lifecycle state.
func (n *Node) State() State {
	return n.getState()
}

// ID returns the node's id, or an empty string before init.
func (n *Node) ID() string {
	rt := n.runtime.Load()
	if rt == nil {
		return ""
	}
	return rt.ID()
}

// GetPeers returns the sorted node ids received in init, or nil before init.
func (n *Node) GetPeers() []string {
	rt := n.runtime.Load()
	if rt == nil {
		return nil
	}
	return rt.Peers().IDs
}

//GetStats returns stats
func (n *Node) GetStats() map[string]string {
	toString := func(i uint64) string {
		return strconv.FormatUint(i, 10)
	}

	uptime := n.conf.Clock.Since(n.start)

	s := map[string]string{
		"id":                n.ID(),
		"state":             n.getState().String(),
		"workload":          n.workload.Name(),
		"num_peers":         strconv.Itoa(len(n.GetPeers())),
		"messages_received": toString(n.received.Load()),
		"messages_queued":   toString(n.queued.Load()),
		"messages_pending":  strconv.Itoa(n.trans.Pending()),
		"records_dropped":   toString(n.dropped.Load()),
		"gossip_rounds":     toString(n.gossipRounds.Load()),
		"uptime":            uptime.Round(time.Millisecond).String(),
	}
	return s
}

func (n *Node) logStats() {
	stats := n.GetStats()

	n.logger.WithFields(logrus.Fields{
		"id":                stats["id"],
		"state":             stats["state"],
		"num_peers":         stats["num_peers"],
		"messages_received": stats["messages_received"],
		"messages_queued":   stats["messages_queued"],
		"messages_pending":  stats["messages_pending"],
		"records_dropped":   stats["records_dropped"],
		"gossip_rounds":     stats["gossip_rounds"],
	}).Debug("Stats")
}

// send queues e on the transport. It is the Sender of the runtime and the
// path taken by replies.
func (n *Node) send(e message.Envelope) {
	n.queued.Inc()
	n.trans.Send(e)
}

func (n *Node) drop(reason string) {
	n.dropped.Inc()
	telemetry.RecordsDropped.WithLabelValues(reason).Inc()
}

// gossip runs one gossip round, provided the node is initialised.
func (n *Node) gossip() {
	if n.getState() != Running {
		return
	}

	rt := n.runtime.Load()

	n.gossipRounds.Inc()
	telemetry.GossipRounds.Inc()

	n.workload.Gossip(rt)

	if n.gossipRounds.Load()%100 == 0 {
		n.logStats()
	}
}

func (n *Node) init(e message.Envelope, m message.Init) {
	if n.getState() != Uninitialized {
		n.drop(telemetry.DropSequence)
		err := common.NewFault(common.SequenceFault, "init received in state %s", n.getState())
		n.logger.WithError(err).WithField("src", e.Src).Warn("Ignoring init")
		return
	}

	peerSet := peers.NewPeerSet(m.NodeIDs)
	if !peerSet.Contains(m.NodeID) {
		n.logger.WithFields(logrus.Fields{
			"node_id":  m.NodeID,
			"node_ids": peerSet.IDs,
		}).Warn("node_id does not belong to node_ids")
	}

	n.runtime.Store(workload.NewRuntime(m.NodeID, peerSet, n.send))
	n.logger = n.logger.WithField("node_id", m.NodeID)

	n.send(e.Reply(message.InitOk{}))
	n.setState(Running)

	interval := n.conf.gossipInterval(n.workload.GossipInterval())
	n.controlTimer.Reset(interval)

	n.logger.WithFields(logrus.Fields{
		"peers":    peerSet.IDs,
		"interval": interval,
	}).Info("Initialised")
}
