package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pixeldiff/internal/store"
)

var (
	resultsDataDir string
	olderThan      time.Duration
	forceClean     bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage stored comparison results",
	Long: `Manage comparison results stored on disk, including listing, cleaning
old results and showing the comparison history.`,
}

var listResultsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored comparison results",
	RunE:  runListResults,
}

var cleanResultsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete results older than a given age",
	RunE:  runCleanResults,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the comparison history log",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(listResultsCmd)
	resultsCmd.AddCommand(cleanResultsCmd)
	resultsCmd.AddCommand(historyCmd)

	resultsCmd.PersistentFlags().StringVar(&resultsDataDir, "data-dir", "./data", "Base directory for stored results")
	cleanResultsCmd.Flags().DurationVar(&olderThan, "older-than", 0, "Delete results older than this duration (required)")
	cleanResultsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

func runListResults(cmd *cobra.Command, args []string) error {
	resultStore, err := store.NewFSStore(resultsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create result store: %w", err)
	}

	summaries, err := resultStore.ListResults()
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSIZE\tEXACT %\tSIZE ON DISK")
	for _, summary := range summaries {
		displayID := summary.ID
		if len(displayID) > 12 {
			displayID = displayID[:12] + "..."
		}

		dir := filepath.Join(resultsDataDir, "comparisons", summary.ID)
		sizeStr := "unknown"
		if size, err := getDirSize(dir); err == nil {
			sizeStr = formatBytes(size)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n",
			displayID,
			summary.CreatedAt.Format("2006-01-02 15:04:05"),
			summary.ImageSize,
			summary.Algorithms["exact"].ChangedPercent,
			sizeStr,
		)
	}
	w.Flush()

	fmt.Printf("\nTotal results: %d\n", len(summaries))
	return nil
}

func runCleanResults(cmd *cobra.Command, args []string) error {
	if olderThan <= 0 {
		return fmt.Errorf("must specify --older-than")
	}

	resultStore, err := store.NewFSStore(resultsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create result store: %w", err)
	}

	summaries, err := resultStore.ListResults()
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	toDelete := selectResultsForDeletion(summaries, olderThan)
	if len(toDelete) == 0 {
		fmt.Println("No results to clean.")
		return nil
	}

	if !forceClean {
		fmt.Printf("About to delete %d result(s) older than %s. Continue? [y/N] ", len(toDelete), olderThan)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	deleted := 0
	for _, summary := range toDelete {
		if err := resultStore.DeleteResult(summary.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete %s: %v\n", summary.ID, err)
			continue
		}
		deleted++
	}

	fmt.Printf("Deleted %d result(s).\n", deleted)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	entries, err := store.ReadHistory(resultsDataDir)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No history entries.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tID\tSIZE\tTHRESHOLD\tEXACT %")
	for _, entry := range entries {
		displayID := entry.ID
		if len(displayID) > 12 {
			displayID = displayID[:12] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			displayID,
			entry.ImageSize,
			entry.Threshold,
			entry.ChangedPercent["exact"],
		)
	}
	w.Flush()
	return nil
}

// selectResultsForDeletion returns the summaries older than maxAge.
func selectResultsForDeletion(summaries []store.Summary, maxAge time.Duration) []store.Summary {
	cutoff := time.Now().Add(-maxAge)
	var toDelete []store.Summary
	for _, summary := range summaries {
		if summary.CreatedAt.Before(cutoff) {
			toDelete = append(toDelete, summary)
		}
	}
	return toDelete
}

// getDirSize walks a directory and sums file sizes.
func getDirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}

// formatBytes renders a byte count in human-readable form.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
