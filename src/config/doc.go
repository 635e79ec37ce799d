// Package config defines the configuration for a murmur node.
//
// A node is configured from command line flags, MURMUR_ environment
// variables, or an optional murmur.toml file in the data directory, in that
// order of precedence. None of the options change the wire protocol; they
// only control logging, the gossip period, and the optional HTTP service.
package config
