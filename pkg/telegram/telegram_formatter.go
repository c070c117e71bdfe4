package telegram

import (
	"fmt"
	"strings"

	"golang-sentiment-scryper/internal/analyzer/dto"
	"golang-sentiment-scryper/internal/entity"
)

const maxMessageLen = 4090

// FormatSentimentReportForTelegram renders the report as Markdown messages,
// each no longer than the Telegram limit.
func FormatSentimentReportForTelegram(report *dto.SentimentReport) []string {
	if report == nil || len(report.Authors) == 0 {
		return []string{"No authors are tracked yet."}
	}

	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		if part == 1 {
			currentMessage.WriteString(fmt.Sprintf("📊 *Author Sentiment Report* 📊\n_%s to %s_\n\n", report.Start, report.End))
		} else {
			currentMessage.WriteString(fmt.Sprintf("---*Author Sentiment Report Part %d*---\n\n", part))
		}
	}
	appendEntry := func(entry string) {
		if currentMessage.Len()+len(entry) > maxMessageLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(entry)
	}

	startNewPart()
	for _, a := range report.Authors {
		appendEntry(formatAuthorSummary(a))
	}
	appendEntry(formatAuthorSummary(report.Overall))
	appendEntry(formatDistribution(report.Distribution))

	messages = append(messages, currentMessage.String())
	return messages
}

func formatAuthorSummary(a dto.AuthorSummary) string {
	var b strings.Builder
	if a.Name != "" && a.Name != a.Handle {
		b.WriteString(fmt.Sprintf("👤 *%s* (@%s)\n", escapeMarkdown(a.Name), escapeMarkdown(a.Handle)))
	} else {
		b.WriteString(fmt.Sprintf("👤 *%s*\n", escapeMarkdown(a.Handle)))
	}
	if !a.Latest.Valid {
		b.WriteString("No sentiment in this period.\n\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("%s *Latest:* %.1f (%s, %s)\n", labelIcon(a.Label), a.Latest.Value, a.Label, a.LatestDate))
	b.WriteString(fmt.Sprintf("📈 *Average:* %.1f over %d days\n\n", a.Average.Value, a.Days))
	return b.String()
}

func formatDistribution(d dto.DistributionResponse) string {
	var b strings.Builder
	b.WriteString("🥧 *Overall Distribution*\n")
	if d.Total == 0 {
		b.WriteString("No scored days.\n")
		return b.String()
	}
	for _, c := range d.Counts {
		label := c.Label.String()
		b.WriteString(fmt.Sprintf("%s %s: %d (%.0f%%)\n", labelIcon(label), label, c.Count, 100*float64(c.Count)/float64(d.Total)))
	}
	return b.String()
}

func labelIcon(label string) string {
	switch label {
	case entity.ExtremelyBullish.String():
		return "🟢"
	case entity.Bullish.String():
		return "🟩"
	case entity.Neutral.String():
		return "🔵"
	case entity.Bearish.String():
		return "🟧"
	case entity.ExtremelyBearish.String():
		return "🔴"
	default:
		return "⚪"
	}
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
