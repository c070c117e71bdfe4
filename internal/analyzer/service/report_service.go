package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/civil"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/entity"
	"golang-sentiment-scryper/internal/sentiment"
	"golang-sentiment-scryper/pkg/common"
	"golang-sentiment-scryper/pkg/logger"
	"golang-sentiment-scryper/pkg/telegram"
)

// ErrNotifierDisabled is returned when a report is sent without a notifier.
var ErrNotifierDisabled = errors.New("telegram notifier is not configured")

// ReportService summarizes a session over a period and delivers it to chat.
type ReportService interface {
	BuildReport(start, end civil.Date) (*dto.SentimentReport, error)
	SendReport(ctx context.Context, report *dto.SentimentReport) error
}

// NewReportService creates a report service. notifier may be nil.
func NewReportService(sentimentService SentimentService, notifier telegram.Notifier, logger *logger.Logger) ReportService {
	return &reportService{
		sentimentService: sentimentService,
		notifier:         notifier,
		logger:           logger,
	}
}

type reportService struct {
	sentimentService SentimentService
	notifier         telegram.Notifier
	logger           *logger.Logger
}

func (s *reportService) BuildReport(start, end civil.Date) (*dto.SentimentReport, error) {
	series, err := s.sentimentService.Series(start, end)
	if err != nil {
		return nil, err
	}

	report := &dto.SentimentReport{
		Start:        start,
		End:          end,
		Distribution: dto.NewDistributionResponse(s.sentimentService.Distribution()),
	}
	for _, a := range s.sentimentService.Authors() {
		values, _ := series.Column(a.Handle)
		summary := summarizeColumn(series, values)
		summary.Handle = a.Handle
		summary.Name = a.Name
		report.Authors = append(report.Authors, summary)
	}

	overall, _ := series.Column(common.OverallColumn)
	report.Overall = summarizeColumn(series, overall)
	report.Overall.Handle = common.OverallColumn
	return report, nil
}

func (s *reportService) SendReport(ctx context.Context, report *dto.SentimentReport) error {
	if s.notifier == nil {
		return ErrNotifierDisabled
	}
	parts := telegram.FormatSentimentReportForTelegram(report)
	if err := telegram.SendMessages(s.notifier, parts); err != nil {
		s.logger.ErrorContext(ctx, "Failed to send report to Telegram", logger.ErrorField(err))
		return fmt.Errorf("send report: %w", err)
	}
	s.logger.InfoContext(ctx, "Report sent to Telegram", logger.IntField("parts", len(parts)))
	return nil
}

func summarizeColumn(series entity.SentimentSeries, values []entity.NullScore) dto.AuthorSummary {
	var summary dto.AuthorSummary
	present := make([]float64, 0, len(values))
	for i, v := range values {
		if !v.Valid {
			continue
		}
		present = append(present, v.Value)
		summary.Latest = v
		summary.LatestDate = series.Rows[i].Date
	}
	if len(present) == 0 {
		return summary
	}

	sort.Float64s(present)
	sum := 0.0
	for _, v := range present {
		sum += v
	}
	summary.Days = len(present)
	summary.Average = entity.Score(sum / float64(len(present)))
	summary.Label = sentiment.Classify(summary.Latest.Value).String()
	return summary
}
