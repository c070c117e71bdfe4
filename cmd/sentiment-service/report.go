package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/analyzer/service"
	"golang-sentiment-scryper/pkg/logger"
	"golang-sentiment-scryper/pkg/telegram"
	"golang-sentiment-scryper/pkg/utils"
)

var (
	reportHandles []string
	reportStart   string
	reportEnd     string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Scores the given authors and prints or sends a sentiment report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringSliceVar(&reportHandles, "handle", nil, "Author handle (repeatable)")
	reportCmd.Flags().StringVar(&reportStart, "start", "", "Start date (YYYY-MM-DD), defaults to sentiment.default_start_date")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "End date (YYYY-MM-DD), defaults to today")
	_ = reportCmd.MarkFlagRequired("handle")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	start, err := utils.ParseDate(reportStart, a.defaultStart)
	if err != nil {
		return err
	}
	end, err := utils.ParseDate(reportEnd, utils.Today(a.loc))
	if err != nil {
		return err
	}

	var notifier telegram.Notifier
	if a.cfg.Telegram.Enabled() {
		notifier, err = telegram.NewClient(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID)
		if err != nil {
			return fmt.Errorf("failed to initialize telegram client: %w", err)
		}
	}
	reportService := service.NewReportService(a.sentimentService, notifier, a.logger)

	a.addAuthors(ctx, reportHandles)

	report, err := reportService.BuildReport(start, end)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Sentiment %s to %s\n", start, end)
	summaries := append(append([]dto.AuthorSummary{}, report.Authors...), report.Overall)
	for _, s := range summaries {
		if !s.Latest.Valid {
			fmt.Fprintf(out, "  %-20s no data\n", s.Handle)
			continue
		}
		fmt.Fprintf(out, "  %-20s latest %6.2f (%s)  average %6.2f over %d days\n",
			s.Handle, s.Latest.Value, s.Label, s.Average.Value, s.Days)
	}
	fmt.Fprintln(out, "Distribution of Overall:")
	for _, c := range report.Distribution.Counts {
		fmt.Fprintf(out, "  %-18s %d\n", c.Label, c.Count)
	}
	if report.Distribution.Total == 0 {
		fmt.Fprintln(out, "  no scored days")
	}

	if err := reportService.SendReport(ctx, report); err != nil {
		if errors.Is(err, service.ErrNotifierDisabled) {
			a.logger.Info("Telegram not configured, report printed only")
			return nil
		}
		return err
	}
	a.logger.Info("Report delivered", logger.IntField("authors", len(report.Authors)))
	return nil
}
