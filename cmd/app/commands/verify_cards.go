package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	cardsUseCase "github.com/allisson/cardvault/internal/cards/usecase"
)

// RunVerifyCards opens every stored envelope with the configured key and reports the ones
// that cannot be read. The report is printed in full before a non-nil error signals that
// at least one card failed.
//
// Requirements: Database must be migrated and accessible.
func RunVerifyCards(
	ctx context.Context,
	cardUseCase cardsUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	batchSize int,
	format string,
) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	logger.Info("verifying cards", slog.Int("batch_size", batchSize))

	report, err := cardUseCase.Verify(ctx, batchSize)
	if err != nil {
		return fmt.Errorf("failed to verify cards: %w", err)
	}

	if format == "json" {
		if err := outputVerifyJSON(writer, report); err != nil {
			return err
		}
	} else {
		outputVerifyText(writer, report)
	}

	logger.Info("verification completed",
		slog.Int("total", report.Total),
		slog.Int("readable", report.Readable),
		slog.Int("failed", len(report.Failures)),
	)

	if len(report.Failures) > 0 {
		return fmt.Errorf("%d card(s) could not be opened", len(report.Failures))
	}
	return nil
}

func outputVerifyText(writer io.Writer, report *cardsUseCase.VerifyReport) {
	_, _ = fmt.Fprintf(writer, "Cards scanned:  %d\n", report.Total)
	_, _ = fmt.Fprintf(writer, "Readable:       %d\n", report.Readable)
	_, _ = fmt.Fprintf(writer, "Unreadable:     %d\n", len(report.Failures))

	if len(report.Failures) == 0 {
		_, _ = fmt.Fprintln(writer, "\n"+color.GreenString("✓")+" All cards can be opened with the configured key")
		return
	}

	_, _ = fmt.Fprintln(writer, "\n"+color.RedString("✗")+" Unreadable cards:")
	for _, failure := range report.Failures {
		_, _ = fmt.Fprintf(writer, "  %s (owner %s): %s\n",
			failure.CardID, failure.OwnerID, color.YellowString(failure.Reason))
	}
}

func outputVerifyJSON(writer io.Writer, report *cardsUseCase.VerifyReport) error {
	jsonBytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
