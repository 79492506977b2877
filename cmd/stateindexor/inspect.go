package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/config"
	"github.com/goran-ethernal/StateIndexor/internal/kvstore"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	pkgconfig "github.com/goran-ethernal/StateIndexor/pkg/config"
	idx "github.com/goran-ethernal/StateIndexor/pkg/indexer"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
)

var (
	undoHeight string
	rollbackTo string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print indexed heights and the retained undo range",
	Long: `Print the coordinator and per consumer indexed heights and the undo
range. With --undo, list the undo records of one retained height. The store
must not be open by a running indexer.`,
	RunE: runStatus,
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Rewind the primary store to a retained height",
	RunE:  runRollback,
}

var consumersCmd = &cobra.Command{
	Use:   "consumers",
	Short: "List available consumer types",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		descriptors := newRegistry(logger.NewNopLogger()).List()

		fmt.Fprintln(out, "Available consumer types:")
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0) //nolint:mnd
		for _, d := range descriptors {
			kind := "dependent"
			if d.Foundational {
				kind = "foundational"
			}
			fmt.Fprintf(tw, "  - %s\t%s\t%s\n", d.Type, kind, d.Description)
		}
		_ = tw.Flush()
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration JSON schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := &jsonschema.Reflector{FieldNameTag: "json"}
		schema := r.Reflect(&pkgconfig.Config{})
		schema.Title = "StateIndexor configuration"

		out, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&undoHeight, "undo", "", "list the undo records of this height (decimal or 0x hex)")
	rollbackCmd.Flags().StringVar(&rollbackTo, "to", "", "height to rewind to, inclusive (decimal or 0x hex)")
	_ = rollbackCmd.MarkFlagRequired("to")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	out := cmd.OutOrStdout()
	if cmd.Flags().Changed("undo") {
		height, err := common.ParseUint64orHex(&undoHeight)
		if err != nil {
			return fmt.Errorf("invalid --undo height: %w", err)
		}
		return printUndo(out, store, height)
	}
	return printStatus(out, store, cfg.Consumers)
}

func printStatus(out io.Writer, store *kvstore.Store, consumers []pkgconfig.ConsumerConfig) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0) //nolint:mnd
	defer tw.Flush()

	height, ok, err := kvstore.GetUint32(store, common.HeightKey())
	if err != nil {
		return err
	}
	fmt.Fprintf(tw, "indexed height\t%s\n", optional(uint64(height), ok))

	for _, c := range consumers {
		h, ok, err := idx.ConsumerHeight(store, c.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "consumer %s\t%s\n", c.Name, optional(h, ok))
	}

	undoLog := store.Undo()
	oldest, ok, err := undoLog.Oldest()
	if err != nil {
		return err
	}
	fmt.Fprintf(tw, "undo oldest\t%s\n", optional(oldest, ok))

	tip, ok, err := undoLog.Tip()
	if err != nil {
		return err
	}
	fmt.Fprintf(tw, "undo tip\t%s\n", optional(tip, ok))
	fmt.Fprintf(tw, "undo window\t%d\n", undoLog.Window())

	return nil
}

func printUndo(out io.Writer, store *kvstore.Store, height uint64) error {
	undoLog := store.Undo()

	marker, err := undoLog.Marker(height)
	if err != nil {
		return err
	}
	if marker == nil {
		return fmt.Errorf("height %d is not retained in the undo log", height)
	}

	records, err := undoLog.Records(height)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "height %d hash %s committed %s, %d record(s)\n",
		marker.Height, marker.BlockHash, time.Unix(marker.CommittedAt, 0).UTC().Format(time.RFC3339), len(records))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0) //nolint:mnd
	defer tw.Flush()
	for _, r := range records {
		prior := "<absent>"
		if r.PriorExists() {
			prior = hex.EncodeToString(r.Prior)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Seq, r.Op, r.Key, prior)
	}
	return nil
}

func runRollback(cmd *cobra.Command, args []string) error {
	target, err := common.ParseUint64orHex(&rollbackTo)
	if err != nil {
		return fmt.Errorf("invalid --to height: %w", err)
	}

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	reverted, err := store.RollbackTo(ctx, target)
	if err != nil {
		return fmt.Errorf("rollback to %d failed: %w", target, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "rolled back to height %d, %d record(s) reverted\n", target, reverted)
	return nil
}

func optional(v uint64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d", v)
}
