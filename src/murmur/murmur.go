// Package murmur wires a murmur node together: configuration, codec,
// transport, node and the optional HTTP service.
package murmur

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mosaicnetworks/murmur/src/config"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/net"
	"github.com/mosaicnetworks/murmur/src/node"
	"github.com/mosaicnetworks/murmur/src/service"
	"github.com/mosaicnetworks/murmur/src/telemetry"
	"github.com/mosaicnetworks/murmur/src/version"
	"github.com/mosaicnetworks/murmur/src/workload"
	"github.com/sirupsen/logrus"
)

const serviceShutdownTimeout = 2 * time.Second

// Murmur is a node engine. Create it with NewMurmur, optionally replace In and
// Out, then call Init and Run.
type Murmur struct {
	Config    *config.Config
	Factory   workload.Factory
	Workload  workload.Workload
	Codec     *message.Codec
	Transport net.Transport
	Node      *node.Node
	Service   *service.Service

	// In and Out are the protocol streams. They default to the standard input
	// and output of the process.
	In  io.Reader
	Out io.Writer

	logger *logrus.Entry
}

// NewMurmur returns an engine that runs the workload created by factory.
func NewMurmur(conf *config.Config, factory workload.Factory) *Murmur {
	engine := &Murmur{
		Config:  conf,
		Factory: factory,
		In:      os.Stdin,
		Out:     os.Stdout,
	}

	return engine
}

func (m *Murmur) initCodec() error {
	m.Workload = m.Factory()

	registry := message.NewRegistry()
	m.Workload.Register(registry)

	m.Codec = message.NewCodec(registry)

	m.logger.WithFields(logrus.Fields{
		"workload": m.Workload.Name(),
		"types":    registry.Types(),
	}).Debug("Registered payload types")

	return nil
}

func (m *Murmur) initTransport() error {
	m.Transport = net.NewLineTransport(m.In, m.Out, m.Codec, m.logger.WithField("component", "transport"))
	return nil
}

func (m *Murmur) initNode() error {
	conf := node.NewConfig(
		m.Config.GossipInterval,
		true,
		clockwork.NewRealClock(),
		m.logger.WithField("component", "node"),
	)

	m.Node = node.NewNode(conf, m.Workload, m.Codec, m.Transport)

	return nil
}

func (m *Murmur) initService() error {
	if m.Config.ServiceAddr != "" {
		m.Service = service.NewService(m.Config.ServiceAddr, m.Node, m.logger.WithField("component", "service"))
	}
	return nil
}

// Init builds every component.
func (m *Murmur) Init() error {
	m.logger = m.Config.Logger()

	if err := m.initCodec(); err != nil {
		return err
	}

	if err := m.initTransport(); err != nil {
		return err
	}

	if err := m.initNode(); err != nil {
		return err
	}

	if err := m.initService(); err != nil {
		return err
	}

	telemetry.SetBuildInfo(version.Version, m.Workload.Name())

	return nil
}

// Run blocks until the node terminates. It returns the transport fault that
// stopped the node, if any.
func (m *Murmur) Run() error {
	if m.Service != nil {
		go m.Service.Serve()
	}

	err := m.Node.Run()

	if m.Service != nil {
		ctx, cancel := context.WithTimeout(context.Background(), serviceShutdownTimeout)
		defer cancel()

		if serr := m.Service.Shutdown(ctx); serr != nil {
			m.logger.WithError(serr).Warn("Stopping service")
		}
	}

	return err
}
