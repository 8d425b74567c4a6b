// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command pollcore drives a Scantegrity-style verifiable poll through
// its full lifecycle: announcing it, binding a voter roster,
// committing and revealing column planes, recording votes, and
// auditing the published bulletin log against the Poll Master Key.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/scantegrity/pollcore/internal/ballots"
	"github.com/scantegrity/pollcore/internal/bulletin"
	"github.com/scantegrity/pollcore/internal/pollengine"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "pollcore:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, remaining, err := loadConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return err
	}
	if err := initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename)); err != nil {
		return err
	}
	setLogLevel(cfg.DebugLevel)

	if len(remaining) == 0 {
		return fmt.Errorf("missing command")
	}
	command, args := remaining[0], remaining[1:]
	prompt := pollengine.TerminalPrompter{In: os.Stdin, Out: os.Stderr, Fd: int(os.Stdin.Fd())}

	switch command {
	case "new":
		backup, err := pollengine.New(cfg.PollFile, cfg.PollFile, cfg.AllowDevKDF, prompt)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "poll master key backup (store this safely, outside the trustee shares):")
		fmt.Fprintln(os.Stdout, backup)
		return nil
	case "bind-roster":
		if len(args) < 1 {
			return fmt.Errorf("bind-roster requires a roster CSV path")
		}
		return pollengine.BindRoster(cfg.PollFile, args[0], !hasFlag(args, "--disable-voter-privacy"), cfg.Force, prompt)
	case "step1":
		if len(args) < 2 {
			return fmt.Errorf("step1 requires a committed-roster output path and a planes directory")
		}
		root, err := pollengine.Step1(cfg.PollFile, args[0], args[1], cfg.Force, prompt, nil, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, root.HexString())
		return nil
	case "step2":
		if len(args) < 1 {
			return fmt.Errorf("step2 requires a hex-encoded drawn-summands seed")
		}
		return pollengine.Step2(cfg.PollFile, args[0], cfg.Force, prompt)
	case "generate-print-files":
		if len(args) < 2 {
			return fmt.Errorf("generate-print-files requires an address-labels path and a ballot-info path")
		}
		addrFile, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer addrFile.Close()
		ballotFile, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer ballotFile.Close()
		return pollengine.Step3(cfg.PollFile, addrFile, ballotFile, prompt)
	case "step4":
		if len(args) < 1 {
			return fmt.Errorf("step4 requires a key-files output directory")
		}
		serials, err := parseSerials(args[1:])
		if err != nil {
			return err
		}
		return pollengine.Step4(cfg.PollFile, serials, args[0], cfg.Force, prompt)
	case "step6":
		if len(args) < 2 {
			return fmt.Errorf("step6 requires a planes directory and at least one vote code")
		}
		votes, err := parseVoteCodes(args[1:])
		if err != nil {
			return err
		}
		return pollengine.Step6(cfg.PollFile, args[0], votes, cfg.Force, prompt)
	case "step7":
		if len(args) < 1 {
			return fmt.Errorf("step7 requires a hex-encoded audited-columns seed")
		}
		return pollengine.Step7(cfg.PollFile, args[0], prompt)
	case "step8":
		if len(args) < 3 {
			return fmt.Errorf("step8 requires a tally-keys directory, a roster-reveal path, and a summands-reveal directory")
		}
		return pollengine.Step8(cfg.PollFile, args[0], args[1], args[2], cfg.Force, prompt)
	case "sign":
		if len(args) < 1 {
			return fmt.Errorf("sign requires a file path")
		}
		return pollengine.Sign(cfg.PollFile, args[0], prompt)
	case "gen":
		if len(args) < 3 {
			return fmt.Errorf("gen requires a leaf file, a leaf value, and an output proof path")
		}
		return pollengine.GenMerkleProof(args[0], args[1], args[2])
	case "validate":
		if len(args) < 2 {
			return fmt.Errorf("validate requires a proof file and the leaf value to check")
		}
		ok, err := pollengine.ValidateMerkleProof(args[0], args[1])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("proof does not verify")
		}
		fmt.Fprintln(os.Stdout, "valid")
		return nil
	case "audit":
		if len(args) < 1 {
			return fmt.Errorf("audit requires the bulletin log address to fetch transactions from")
		}
		tally, err := pollengine.Audit(cfg.PollFile, args[0], defaultExplorer(), prompt)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: %d\n%s: %d\n", tally.Option1Text, tally.Option1Count, tally.Option2Text, tally.Option2Count)
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func defaultExplorer() bulletin.Log {
	return bulletin.NewHTTPExplorer("https://api.etherscan.io/api", os.Getenv("POLLCORE_EXPLORER_API_KEY"))
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name {
			return true
		}
	}
	return false
}

func parseSerials(args []string) ([]ballots.Serial, error) {
	out := make([]ballots.Serial, 0, len(args))
	for _, a := range args {
		var s int
		if _, err := fmt.Sscanf(a, "%d", &s); err != nil {
			return nil, fmt.Errorf("invalid serial %q: %w", a, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func parseVoteCodes(args []string) ([]ballots.VoteCode, error) {
	out := make([]ballots.VoteCode, len(args))
	for i, a := range args {
		vc, err := ballots.ParseVoteCode(a)
		if err != nil {
			return nil, err
		}
		out[i] = vc
	}
	return out, nil
}
