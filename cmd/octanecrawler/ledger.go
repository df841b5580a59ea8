package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"octane-crawler/pkg/log"
	"octane-crawler/pkg/models"
	"octane-crawler/pkg/parse"
	"octane-crawler/pkg/storage"
)

// NewLedgerCmd creates the ledger command.
func NewLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger [path...]",
		Short: "Show recorded fetch attempts for the seed host",
		Long: `Ledger reads the fetch ledger of the seed host. Without arguments it lists every
record as "<host><path> <status> <error_type>"; with paths it prints the latest
record for each one.

Examples:
  octanecrawler ledger
  octanecrawler ledger --host example.org / /about
  octanecrawler ledger -o ledger.log`,
		RunE: runLedgerCmd,
	}

	cmd.Flags().String("host", "", "Seed host whose ledger to read (overrides seed.host)")
	cmd.Flags().StringP("out", "o", "", "Write the record listing to this file instead of stdout")

	return cmd
}

func runLedgerCmd(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	ledger, err := storage.NewBadgerLedger(cmd.Context(), cfg.Ledger.StateDir, cfg.Seed.Host, log.Component(logger, "ledger"))
	if err != nil {
		return err
	}
	defer ledger.Close()

	count, err := ledger.GetRecordCount()
	if err != nil {
		return err
	}
	logger.Infof("Fetch ledger for %s holds %d records", cfg.Seed.Host, count)

	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		if outPath != "" {
			return ledger.WriteLedgerLogFile(outPath)
		}
		return ledger.WriteLedgerLog(out)
	}

	for _, path := range args {
		link := models.Link{Host: cfg.Seed.Host, Path: parse.RootPath(path)}
		status, record, err := ledger.CheckFetchStatus(link)
		if err != nil {
			return err
		}
		if record == nil {
			fmt.Fprintf(out, "%s\t%s\n", link, status)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\t%s\tstatus_code=%d bytes=%d links=%d run=%s at=%s\n",
			link, status, record.ErrorType, record.StatusCode, record.Bytes, record.LinksFound,
			record.RunID, record.LastAttempt.Format("2006-01-02T15:04:05Z07:00"))
	}
	return nil
}
