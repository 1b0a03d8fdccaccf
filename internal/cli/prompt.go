package cli

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

var errCancelled = errors.New("cancelled")

// selectMetric is swapped out in tests.
var selectMetric = promptMetric

func promptMetric(columns []string, current string) (string, error) {
	if len(columns) == 0 {
		return "", errors.New("no numeric column is shared by both groups")
	}

	cursor := 0
	for i, c := range columns {
		if c == current {
			cursor = i
		}
	}

	prompt := promptui.Select{
		Label:     "Metric to compare",
		Items:     columns,
		Size:      len(columns),
		CursorPos: cursor,
	}

	_, metric, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", errCancelled
		}
		return "", fmt.Errorf("failed to select metric: %w", err)
	}

	return metric, nil
}
