// Copyright 2018 The Gringo Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package config

import (
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/grinledger/node/consensus"
)

func TestDefaultUsesBuiltInFeeBaseAndDandelionTuning(t *testing.T) {
	cfg := Default(consensus.Floonet)

	if cfg.Network != consensus.Floonet {
		t.Errorf("expected floonet, got %s", cfg.Network)
	}
	if cfg.FeeBase != DefaultFeeBase {
		t.Errorf("expected default fee base %d, got %d", DefaultFeeBase, cfg.FeeBase)
	}
	if cfg.Dandelion.EmbargoSeconds == 0 {
		t.Errorf("expected a non-zero default embargo")
	}
}

func TestPathsAreNestedUnderNetworkTaggedDataDir(t *testing.T) {
	cfg := Default(consensus.Mainnet)
	cfg.DataDir = "/tmp/grinledger-test"

	for _, p := range []string{cfg.ChainPath(), cfg.DatabasePath(), cfg.TxHashSetPath()} {
		if !strings.HasPrefix(p, cfg.DataDir) {
			t.Errorf("expected %q to be nested under %q", p, cfg.DataDir)
		}
		if !strings.Contains(p, "mainnet") {
			t.Errorf("expected %q to carry the network tag", p)
		}
	}

	if cfg.ChainPath() == cfg.DatabasePath() || cfg.ChainPath() == cfg.TxHashSetPath() {
		t.Errorf("expected distinct subdirectories per component")
	}
}

func TestLoadFlagsParsesNetworkAndOverrides(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := LoadFlags(fs, []string{"-network", "floonet", "-fee-base", "1000"})
	if err != nil {
		t.Fatalf("LoadFlags: %v", err)
	}
	if cfg.Network != consensus.Floonet {
		t.Errorf("expected floonet, got %s", cfg.Network)
	}
	if cfg.FeeBase != 1000 {
		t.Errorf("expected fee base 1000, got %d", cfg.FeeBase)
	}
}

func TestLoadFlagsRejectsUnknownNetwork(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := LoadFlags(fs, []string{"-network", "nope"}); err == nil {
		t.Errorf("expected an error for an unknown network tag")
	}
}
