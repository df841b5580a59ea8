package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"octane-crawler/pkg/frontier"
	"octane-crawler/pkg/log"
	"octane-crawler/pkg/models"
)

// NewLinksCmd creates the links command.
func NewLinksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Print the links recorded in the link database",
		Long: `Links reads the link database written by the last crawl and prints one
"host path" line per well-formed record. Nothing is fetched.`,
		Args: cobra.NoArgs,
		RunE: runLinksCmd,
	}

	cmd.Flags().String("db", "", "Link database file (overrides link_db_path)")

	return cmd
}

func runLinksCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return err
	}
	if dbPath == "" {
		dbPath = cfg.LinkDBPath
	}

	out := cmd.OutOrStdout()
	db := frontier.NewLinkDB(dbPath, log.Component(logger, "linkdb"))
	n, err := db.Load(func(link models.Link) {
		fmt.Fprintf(out, "%s %s\n", link.Host, link.Path)
	})
	if err != nil {
		return err
	}
	logger.Infof("Read %d link records from %s", n, dbPath)
	return nil
}
