package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"octane-crawler/pkg/crawler"
	"octane-crawler/pkg/fetch"
	"octane-crawler/pkg/frontier"
	"octane-crawler/pkg/log"
	"octane-crawler/pkg/models"
	"octane-crawler/pkg/process"
	"octane-crawler/pkg/storage"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Fetch the seed page and record the links it references",
		Long: `Crawl fetches the seed page once, extracts every link from the raw response,
writes them to the link database (replacing its previous content), waits for the
politeness delay and reads the database back.

Examples:
  # Crawl the configured seed
  octanecrawler crawl

  # Crawl another host and print a YAML report
  octanecrawler crawl --host example.org --report -`,
		RunE: runCrawlCmd,
	}

	cmd.Flags().String("host", "", "Seed host (overrides seed.host)")
	cmd.Flags().String("path", "", "Seed path (overrides seed.path)")
	cmd.Flags().String("report", "", "Write a YAML crawl report to this file ('-' for stdout)")
	cmd.Flags().Bool("no-ledger", false, "Do not record the fetch in the ledger")

	return cmd
}

func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	reportPath, err := cmd.Flags().GetString("report")
	if err != nil {
		return err
	}
	noLedger, err := cmd.Flags().GetBool("no-ledger")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := crawler.NewCrawler(
		cfg,
		log.Component(logger, "crawler"),
		fetch.NewFetcher(cfg.Fetch, log.Component(logger, "fetcher")),
		process.NewLinkExtractor(cfg.Extract.MaxScanBytes, log.Component(logger, "extractor")),
		frontier.NewLinkDB(cfg.LinkDBPath, log.Component(logger, "linkdb")),
		fetch.NewRateLimiter(cfg.PolitenessDelay, log.Component(logger, "ratelimit")),
	).WithDumper(storage.NewResponseDumper(cfg.StorageDir, log.Component(logger, "dumper")))

	if cfg.LedgerEnabled() && !noLedger {
		ledger, err := storage.NewBadgerLedger(ctx, cfg.Ledger.StateDir, cfg.Seed.Host, log.Component(logger, "ledger"))
		if err != nil {
			// The ledger is a side record; the crawl goes ahead without it
			logger.Warnf("Fetch ledger unavailable: %v", err)
		} else {
			defer ledger.Close()
			c.WithLedger(ledger)
		}
	}

	report, err := c.Run(ctx)
	if err != nil {
		return err
	}
	logger.Infof("Crawl %s finished: %d links written to %s", report.RunID, len(report.Frontier), report.LinkDBPath)

	return writeReport(cmd, reportPath, report)
}

func writeReport(cmd *cobra.Command, reportPath string, report *models.CrawlReport) error {
	switch reportPath {
	case "":
		return nil
	case "-":
		return crawler.WriteReport(cmd.OutOrStdout(), report)
	}

	file, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("create report file '%s': %w", reportPath, err)
	}
	if err := crawler.WriteReport(file, report); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
