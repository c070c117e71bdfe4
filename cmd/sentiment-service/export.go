package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/export"
	"golang-sentiment-scryper/pkg/logger"
)

var (
	exportHandles []string
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Scores the given authors and writes their posts to CSV",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringSliceVar(&exportHandles, "handle", nil, "Author handle (repeatable)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", common.ExportFileName, "Destination CSV file")
	_ = exportCmd.MarkFlagRequired("handle")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.addAuthors(ctx, exportHandles)
	rows := a.sentimentService.ExportRows()

	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOutput, err)
	}
	if err := export.WriteCSV(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	a.logger.Info("Export written", logger.StringField("path", exportOutput), logger.IntField("rows", len(rows)))
	return nil
}
