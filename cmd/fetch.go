package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gpv-monitor/gpv/config"
	"github.com/gpv-monitor/gpv/core/render"
	"github.com/gpv-monitor/gpv/core/schedule"
	"github.com/gpv-monitor/gpv/infra/fetch"
)

var fetchQueue string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and print the current schedule once",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchQueue, "queue", "q", "", "queue to print (defaults to the first configured one)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	queue := fetchQueue
	if queue == "" {
		queue = cfg.Queues[0]
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.Source.TimeoutSeconds)*time.Second)
	defer cancel()

	client := fetch.NewClient(cfg.Source)
	html, err := client.FetchPage(ctx)
	if err != nil {
		return err
	}
	page, err := fetch.ParsePage(html)
	if err != nil {
		return err
	}
	raw, updated := page.QueueRanges(queue)
	windows, err := schedule.ParseRanges(raw)
	if err != nil {
		return fmt.Errorf("parse ranges for queue %s: %w", queue, err)
	}

	out := cmd.OutOrStdout()
	if label := page.DateLabel(); label != "" {
		fmt.Fprintf(out, "Schedule for %s, queue %s", label, queue)
	} else {
		fmt.Fprintf(out, "Schedule for queue %s", queue)
	}
	if updated {
		fmt.Fprint(out, " (updated)")
	}
	fmt.Fprintln(out)

	s := schedule.New(queue, windows, page.DateLabel(), time.Time{}, time.Now())
	fmt.Fprintf(out, "%s (%.1f%% of the day)\n", s.Text(), s.OutagePercent())
	fmt.Fprintln(out, render.ASCII(windows, render.DefaultWidth))
	return nil
}
