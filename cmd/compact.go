package cmd

import (
	"fmt"
	"os"
)

// Compact compacts the ledger database to reclaim unused space
func Compact(e *Env) error {
	l, err := e.OpenLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	info, err := os.Stat(l.Path())
	if err != nil {
		return err
	}
	sizeBefore := info.Size()

	if err := l.Compact(); err != nil {
		return err
	}

	info, err = os.Stat(l.Path())
	if err != nil {
		return err
	}
	sizeAfter := info.Size()

	fmt.Fprintf(e.Out, "Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(sizeAfter))
	return nil
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
