package node

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/sirupsen/logrus"
)

// Config holds the options of a Node.
type Config struct {
	// GossipInterval overrides the workload's gossip period when positive.
	GossipInterval time.Duration

	// HandleSignals makes the node shut down gracefully on SIGINT and
	// SIGTERM.
	HandleSignals bool

	// Clock drives the gossip timer and the uptime stat.
	Clock clockwork.Clock

	Logger *logrus.Entry
}

// NewConfig returns a Config.
func NewConfig(gossipInterval time.Duration,
	handleSignals bool,
	clock clockwork.Clock,
	logger *logrus.Entry) *Config {

	return &Config{
		GossipInterval: gossipInterval,
		HandleSignals:  handleSignals,
		Clock:          clock,
		Logger:         logger,
	}
}

// DefaultConfig returns a Config on the real clock, using the workload's
// gossip period and reacting to signals.
func DefaultConfig() *Config {
	logger := logrus.New()
	logger.Level = logrus.DebugLevel

	return &Config{
		GossipInterval: 0,
		HandleSignals:  true,
		Clock:          clockwork.NewRealClock(),
		Logger:         logrus.NewEntry(logger),
	}
}

// TestConfig returns a Config on a fake clock, ignoring signals and logging
// through t.
func TestConfig(t testing.TB, clock clockwork.Clock) *Config {
	config := DefaultConfig()
	config.HandleSignals = false
	config.Clock = clock
	config.Logger = common.NewTestEntry(t, common.TestLogLevel)
	return config
}

func (c *Config) gossipInterval(workloadDefault time.Duration) time.Duration {
	if c.GossipInterval > 0 {
		return c.GossipInterval
	}
	return workloadDefault
}
