package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"caregrid-listings/config"
	"caregrid-listings/storage"
	"caregrid-listings/utils"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		OutputDir:           t.TempDir(),
		ReachabilityMode:    config.ReachabilityHead,
		GeocodeURL:          "https://maps.googleapis.com/maps/api/geocode/json",
		GeocodeTimeout:      time.Second,
		ReachabilityTimeout: time.Second,
		PublishTimeout:      time.Second,
	}
}

func execute(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func TestRunCommandFailureIsProcessingError(t *testing.T) {
	cfg := testConfig(t)
	missing := filepath.Join(t.TempDir(), "nope.csv")

	err := execute(createRunCmd(cfg, utils.NopLogger()), "--input", missing, "--skip-enrich")
	if !errors.Is(err, storage.ErrInputMissing) {
		t.Fatalf("run error = %v; want ErrInputMissing", err)
	}
	if !strings.Contains(err.Error(), "processing failed") {
		t.Errorf("run error = %q; want it to mention processing failed", err)
	}
}

func TestOtherCommandFailuresAreNotProcessingErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  func(cfg *config.Config) *cobra.Command
		args []string
		want string
	}{
		{
			name: "publish missing file",
			cmd:  func(cfg *config.Config) *cobra.Command { return createPublishCmd(cfg, utils.NopLogger()) },
			args: []string{"--from", "does-not-exist.json"},
			want: "publish:",
		},
		{
			name: "check-env invalid mode",
			cmd: func(cfg *config.Config) *cobra.Command {
				cfg.ReachabilityMode = "ping"
				return createCheckEnvCmd(cfg)
			},
			want: "configuration invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(tt.cmd(testConfig(t)), tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q; want it to contain %q", err, tt.want)
			}
			if strings.Contains(err.Error(), "processing failed") {
				t.Errorf("error = %q; must not report a processing failure", err)
			}
		})
	}
}

func TestRunCommandWritesOutputs(t *testing.T) {
	cfg := testConfig(t)
	input := filepath.Join(t.TempDir(), "clinics.csv")
	body := "name,category,phone,city,postcode\nPark Surgery,gp,0113 496 0000,leeds,LS1 5AB\n"
	if err := os.WriteFile(input, []byte(body), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	err := execute(createRunCmd(cfg, utils.NopLogger()),
		"--input", input, "--output", cfg.OutputDir, "--skip-enrich", "--publish=false")
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	for _, name := range []string{storage.AllFile, storage.ReadyFile, storage.ReviewFile} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
}
