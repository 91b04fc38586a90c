package main

import (
	"fmt"
	"io"

	"github.com/alvmarrod/link-weaver/internal/api"
	"github.com/alvmarrod/link-weaver/internal/crawler"
	"github.com/alvmarrod/link-weaver/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl subcommand, which runs a single job in the
// foreground and prints what it found.
func NewCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl one site in the foreground and print its links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			base, err := api.ValidateBaseURL(args[0])
			if err != nil {
				return err
			}

			archive, err := openArchive(cfg)
			if err != nil {
				return err
			}
			if archive != nil {
				defer archive.Close()
			}

			index, tracker, sup := newCrawlStack(cfg)
			sup.Launch(base)
			sup.Wait()
			logrus.Info("Final stats: " + tracker.LogProgress())

			if archive != nil {
				if err := index.Flush(archive); err != nil {
					return fmt.Errorf("failed to flush link index: %w", err)
				}
			}

			host := crawler.DomainRoot(base).Hostname()
			record, ok := index.Get(host)
			if !ok {
				record = storage.DomainRecord{Domain: host}
			}
			return printRecord(cmd.OutOrStdout(), record)
		},
	}
}

func printRecord(w io.Writer, record storage.DomainRecord) error {
	if _, err := fmt.Fprintf(w, "%s: %d links\n", record.Domain, record.Count); err != nil {
		return err
	}
	for _, link := range record.URLs {
		if _, err := fmt.Fprintf(w, "  %s\n", link); err != nil {
			return err
		}
	}
	return nil
}
