package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

// FormatSRT renders a timeline in SubRip format: sequence number,
// "HH:MM:SS,mmm --> HH:MM:SS,mmm" timestamp pair, text, blank line.
func FormatSRT(timeline Timeline) string {
	var sb strings.Builder
	for i, block := range timeline {
		start := time.Duration(block.Offset) * time.Millisecond
		end := time.Duration(block.Offset+block.Duration) * time.Millisecond

		fmt.Fprintf(&sb, "%d\n", i+1)
		fmt.Fprintf(&sb, "%s --> %s\n", formatSRTTime(start), formatSRTTime(end))
		fmt.Fprintf(&sb, "%s\n\n", block.Text)
	}
	return sb.String()
}

// WriteSRT writes a timeline to path in SubRip format.
func WriteSRT(path string, timeline Timeline) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	if _, err := writer.WriteString(FormatSRT(timeline)); err != nil {
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return nil
}

// formatSRTTime formats a duration as an SRT timestamp.
func formatSRTTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	milliseconds := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, milliseconds)
}
