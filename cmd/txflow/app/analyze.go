package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/txflow/txflow/internal/amount"
	"github.com/txflow/txflow/internal/config"
	"github.com/txflow/txflow/internal/logger"
	"github.com/txflow/txflow/internal/nodeclient"
	"github.com/txflow/txflow/internal/txflowerr"
	"github.com/txflow/txflow/internal/txrecord"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "build a transaction record and search it for valid partition-mappings or subset-pairs",
	RunE:  runAnalyzeCmd,
}

func init() {
	flags := analyzeCmd.Flags()
	flags.String("tx-id", "", "transaction id to fetch from the node client instead of prompting interactively")
	flags.String("mode", "", "partition-mapping or subset-pairs (skips the interactive prompt)")
	flags.String("output", "", "output CSV path (defaults per mode, per spec)")
	flags.Bool("yes", false, "proceed automatically even if the estimated search size exceeds the warning threshold")
	flags.Bool("interactive-progress", false, "render progress as a live bar instead of a plain status line")
	flags.Int("preview-rows", 10, "rows to show in the terminal preview table; 0 disables the preview")
	flags.Bool("dump-config", false, "print the effective configuration as YAML and exit")
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := viper.GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}

	if dump, _ := cmd.Flags().GetBool("dump-config"); dump {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "marshaling config")
		}
		fmt.Fprint(os.Stdout, string(out))
		return nil
	}

	log, err := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return errors.Wrap(err, "building logger")
	}
	runID := uuid.New().String()
	log = log.With("run_id", runID)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	in := bufio.NewReader(os.Stdin)

	txID, _ := cmd.Flags().GetString("tx-id")

	var rec *txrecord.Record
	if txID != "" {
		rec, err = fetchRecord(ctx, cfg, txID)
	} else if cmd.Flags().Changed("mode") {
		return errors.New("analyze: --mode requires --tx-id in non-interactive use; omit both to run interactively")
	} else {
		rec, err = interactiveBuildRecord(ctx, in, cfg)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "total in=%s total out=%s fee=%s valid=%v\n",
		amount.FromSatoshis(rec.TotalIn()).String(),
		amount.FromSatoshis(rec.TotalOut()).String(),
		amount.FromSatoshis(rec.Fee()).String(),
		rec.Valid(),
	)

	mode, err := resolveMode(cmd, in)
	if err != nil {
		return err
	}

	outputFile, _ := cmd.Flags().GetString("output")
	if outputFile == "" {
		outputFile = defaultOutputFile(mode, cfg)
		if !cmd.Flags().Changed("output") {
			outputFile = promptWithDefault(in, "output filename", outputFile)
		}
	}

	previewRows, _ := cmd.Flags().GetInt("preview-rows")
	assumeYes, _ := cmd.Flags().GetBool("yes")
	interactiveProgress, _ := cmd.Flags().GetBool("interactive-progress")

	// A run counts as non-interactive only once every prompt-bearing
	// input (tx id, mode, output) was actually supplied on the command
	// line; anything else already reads from stdin, so the size guard
	// below asks for confirmation the same way instead of hard-failing.
	nonInteractive := txID != "" && cmd.Flags().Changed("mode") && cmd.Flags().Changed("output")

	if !assumeYes {
		size, err := estimateSearchSize(len(rec.InputIDs()), len(rec.OutputIDs()))
		if err != nil {
			return errors.Wrap(err, "estimating search size")
		}
		if size > cfg.Engine.SizeWarningThreshold {
			if nonInteractive {
				return errors.Wrapf(txflowerr.ErrSizeExceeded, "estimated %d candidate pairs exceeds threshold %d; rerun with --yes to proceed", size, cfg.Engine.SizeWarningThreshold)
			}
			answer := promptWithDefault(in, fmt.Sprintf("estimated %d candidate pairs exceeds threshold %d; proceed", size, cfg.Engine.SizeWarningThreshold), "N")
			answer = strings.TrimSpace(strings.ToLower(answer))
			if answer != "y" && answer != "yes" {
				return errors.Wrapf(txflowerr.ErrSizeExceeded, "aborted by user: estimated %d candidate pairs exceeds threshold %d", size, cfg.Engine.SizeWarningThreshold)
			}
			assumeYes = true
		}
	}

	opts := runOptions{
		Record:      rec,
		Mode:        mode,
		OutputFile:  outputFile,
		PreviewRows: previewRows,
		ChunkSize:   cfg.Engine.ChunkSize,
		Workers:     cfg.Engine.Workers,
		Interactive: interactiveProgress,
		SizeLimit:   cfg.Engine.SizeWarningThreshold,
		AssumeYes:   assumeYes,
	}

	count, err := runAnalysis(ctx, log, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "txflow: analysis aborted after %d valid result(s): %v\n", count, err)
		return err
	}

	fmt.Fprintf(os.Stdout, "%d valid result(s) written to %s\n", count, outputFile)
	return nil
}

func resolveMode(cmd *cobra.Command, in *bufio.Reader) (analysisMode, error) {
	flag, _ := cmd.Flags().GetString("mode")
	switch strings.TrimSpace(flag) {
	case string(modePartitionMapping):
		return modePartitionMapping, nil
	case string(modeSubsetPairs):
		return modeSubsetPairs, nil
	case "":
		// fall through to interactive prompt
	default:
		return "", errors.Errorf("analyze: unknown --mode %q", flag)
	}

	answer := promptWithDefault(in, "analysis (subset-pairs / partition-mapping)", string(modePartitionMapping))
	switch strings.TrimSpace(answer) {
	case string(modeSubsetPairs):
		return modeSubsetPairs, nil
	default:
		return modePartitionMapping, nil
	}
}

func defaultOutputFile(mode analysisMode, cfg *config.Config) string {
	if mode == modeSubsetPairs {
		return cfg.Output.SubsetPairsFile
	}
	return cfg.Output.PartitionMappingFile
}

func fetchRecord(ctx context.Context, cfg *config.Config, txID string) (*txrecord.Record, error) {
	fetcher := buildFetcher(cfg)

	data, err := fetcher.FetchTx(ctx, txID)
	if err != nil {
		return nil, errors.Wrap(txflowerr.ErrUpstreamFetch, err.Error())
	}

	b := txrecord.NewBuilder()
	for _, in := range data.Inputs {
		if err := b.AddInput(in.ID, in.Amount); err != nil {
			return nil, errors.Wrap(err, "adding fetched input")
		}
	}
	for _, out := range data.Outputs {
		if err := b.AddOutput(out.ID, out.Amount); err != nil {
			return nil, errors.Wrap(err, "adding fetched output")
		}
	}
	return b.Build(), nil
}

func buildFetcher(cfg *config.Config) nodeclient.Fetcher {
	if cfg.Node.Kind == "rpc" {
		return nodeclient.NewRPCFetcher(cfg.Node.Host, cfg.Node.Port, cfg.Node.User, cfg.Node.Password)
	}
	return nodeclient.NewRESTFetcher(cfg.Node.BaseURL)
}

// interactiveBuildRecord implements spec.md §6 steps 1-3: prompt for
// fetch-real vs create-custom, then either fetch a hash or read n, m
// and n+m amounts from stdin.
func interactiveBuildRecord(ctx context.Context, in *bufio.Reader, cfg *config.Config) (*txrecord.Record, error) {
	choice := promptWithDefault(in, "mode (fetch-real / create-custom)", "create-custom")

	if strings.TrimSpace(choice) == "fetch-real" {
		hash := promptWithDefault(in, "transaction hash", "")
		return fetchRecord(ctx, cfg, hash)
	}

	n, err := promptInt(in, "number of inputs (n)")
	if err != nil {
		return nil, err
	}
	m, err := promptInt(in, "number of outputs (m)")
	if err != nil {
		return nil, err
	}

	b := txrecord.NewBuilder()
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("input_%d", i)
		amt, err := promptAmount(in, fmt.Sprintf("amount for %s", id))
		if err != nil {
			return nil, err
		}
		if err := b.AddInput(id, amt.Satoshis()); err != nil {
			return nil, errors.Wrap(err, "adding custom input")
		}
	}
	for i := 0; i < m; i++ {
		id := fmt.Sprintf("output_%d", i)
		amt, err := promptAmount(in, fmt.Sprintf("amount for %s", id))
		if err != nil {
			return nil, err
		}
		if err := b.AddOutput(id, amt.Satoshis()); err != nil {
			return nil, errors.Wrap(err, "adding custom output")
		}
	}

	return b.Build(), nil
}

func promptWithDefault(in *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Fprintf(os.Stdout, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(os.Stdout, "%s: ", label)
	}
	line, _ := in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func promptInt(in *bufio.Reader, label string) (int, error) {
	raw := promptWithDefault(in, label, "")
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", label)
	}
	return n, nil
}

func promptAmount(in *bufio.Reader, label string) (amount.Amount, error) {
	raw := promptWithDefault(in, label, "")
	a, err := amount.ParseDecimal(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", label)
	}
	return a, nil
}
