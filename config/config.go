// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// Package config holds the node's startup configuration: where it keeps
// its data, which network it validates against, and the handful of
// consensus-adjacent parameters a deployment may need to override (fee
// base, Dandelion timing). The reference implementation loads a much
// larger tree of JSON-backed settings (wallet, Tor, REST API); a full
// node core only needs the subset that changes what gets written to
// disk and what a transaction must pay to be accepted.
package config

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/grinledger/node/consensus"
	"github.com/grinledger/node/txpool"
)

// DefaultFeeBase is the default fee base, in nanogrin per unit of
// transaction weight. Grounded on the reference implementation's own
// default of 500,000 nanogrin.
const DefaultFeeBase uint64 = 500000

// Config is the node's resolved startup configuration.
type Config struct {
	// Network selects the consensus ruleset: mainnet, floonet, or an
	// automated-testing network used by integration tests.
	Network consensus.Network

	// DataDir is the root directory under which the chain index, block
	// store, and tx hashset files are kept. A NODE/ subdirectory is
	// created per network, mirroring the reference layout of
	// CHAIN/, DB/, and TXHASHSET/ siblings under one data root.
	DataDir string

	// FeeBase is the fee rate, in nanogrin per weight unit, parsed from the
	// command line. Nothing outside this package reads it: txpool
	// admission applies no minimum fee.
	FeeBase uint64

	// DifficultyAdjustWindow and MedianTimeWindow mirror the consensus
	// package's own constants. Nothing outside this package reads them:
	// every network, automated testing included, uses the consensus
	// package's constants regardless of what is set here.
	DifficultyAdjustWindow int
	MedianTimeWindow       int

	// Dandelion is the privacy-relay timing the pool's RunDandelion
	// loop uses.
	Dandelion txpool.DandelionConfig
}

// Default returns the configuration for network with every other field
// set to its built-in default.
func Default(network consensus.Network) Config {
	return Config{
		Network:                network,
		DataDir:                defaultDataDir(),
		FeeBase:                DefaultFeeBase,
		DifficultyAdjustWindow: consensus.DifficultyAdjustWindow,
		MedianTimeWindow:       consensus.MedianTimeWindow,
		Dandelion:              txpool.DefaultDandelionConfig(),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".grinledger"
	}
	return filepath.Join(home, ".grinledger")
}

// ChainPath, DatabasePath, and TxHashSetPath lay out one data directory
// into the per-component subdirectories chainindex and txhashset open
// their files under, mirroring the reference NODE/CHAIN, NODE/DB, and
// NODE/TXHASHSET split under one network-tagged data root.
func (c Config) networkDir() string {
	return filepath.Join(c.DataDir, c.Network.String(), "NODE")
}

func (c Config) ChainPath() string {
	return filepath.Join(c.networkDir(), "CHAIN")
}

func (c Config) DatabasePath() string {
	return filepath.Join(c.networkDir(), "DB")
}

func (c Config) TxHashSetPath() string {
	return filepath.Join(c.networkDir(), "TXHASHSET")
}

// EnsureDirs creates every directory Config's path methods name, if
// missing.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.ChainPath(), c.DatabasePath(), c.TxHashSetPath()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// LoadFlags parses network, data directory, and fee base from the
// command line, the same flat set of overrides the reference binary's
// own minimal main() takes as hardcoded constructor arguments rather
// than a config file. fs is typically flag.CommandLine; args is
// typically os.Args[1:].
func LoadFlags(fs *flag.FlagSet, args []string) (Config, error) {
	networkTag := fs.String("network", "mainnet", "network to join: mainnet, floonet, or automated-testing")
	dataDir := fs.String("data-dir", defaultDataDir(), "root directory for chain and database files")
	feeBase := fs.Uint64("fee-base", DefaultFeeBase, "minimum fee rate, in nanogrin per weight unit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	network, err := consensus.ParseNetwork(*networkTag)
	if err != nil {
		return Config{}, err
	}

	cfg := Default(network)
	cfg.DataDir = *dataDir
	cfg.FeeBase = *feeBase
	return cfg, nil
}
