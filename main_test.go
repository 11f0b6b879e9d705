package main

import (
	"errors"
	"testing"

	"mapcurator/pkg/game/curator"
	"mapcurator/pkg/game/generator"
	"mapcurator/pkg/game/renderer"
)

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if opts.kind != generator.DefaultKind {
		t.Errorf("kind = %q, want %q", opts.kind, generator.DefaultKind)
	}
	if opts.width != generator.DefaultWidth || opts.height != generator.DefaultHeight {
		t.Errorf("size = %dx%d", opts.width, opts.height)
	}
	if opts.curator != curator.DefaultConfig() {
		t.Errorf("curator config = %+v, want defaults", opts.curator)
	}
	if opts.ui != renderer.UITerminal {
		t.Errorf("ui = %q, want %q", opts.ui, renderer.UITerminal)
	}
}

func TestParseFlags_Overrides(t *testing.T) {
	opts, err := parseFlags([]string{
		"-gen", "bsp", "-w", "40", "-h", "30", "-count", "5", "-seed", "7",
		"-fast", "-percentile", "0.5", "-no-fitness", "-fill-inactive", "-ui", "PLAIN", "-once",
		"-serve", ":2222", "-hostkey", "key.pem",
	})
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if opts.kind != generator.KindBSP || opts.width != 40 || opts.height != 30 || opts.seed != 7 {
		t.Errorf("opts = %+v", opts)
	}
	c := opts.curator
	if c.Count != 5 || !c.FastForward || c.FitnessPercentile != 0.5 || c.FitnessCheck || !c.FillInactiveTiles {
		t.Errorf("curator config = %+v", c)
	}
	if opts.ui != renderer.UIPlain || !opts.once {
		t.Errorf("ui = %q, once = %v", opts.ui, opts.once)
	}
	if opts.serveAddr != ":2222" || opts.hostKey != "key.pem" {
		t.Errorf("serve = %q, hostkey = %q", opts.serveAddr, opts.hostKey)
	}
}

func TestParseFlags_Rejects(t *testing.T) {
	if _, err := parseFlags([]string{"-percentile", "2"}); !errors.Is(err, curator.ErrInvalidConfig) {
		t.Errorf("bad percentile error = %v, want ErrInvalidConfig", err)
	}
	if _, err := parseFlags([]string{"-ui", "gtk"}); err == nil {
		t.Error("unknown ui accepted")
	}
	if _, err := parseFlags([]string{"-nope"}); err == nil {
		t.Error("unknown flag accepted")
	}
}

func TestRun_UnknownKind(t *testing.T) {
	opts, err := parseFlags([]string{"-gen", "maze", "-ui", "plain"})
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if err := run(opts); !errors.Is(err, generator.ErrUnknownKind) {
		t.Errorf("run error = %v, want ErrUnknownKind", err)
	}
}
