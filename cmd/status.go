package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var serverURL string

var statusCmd = &cobra.Command{
	Use:   "status [comparison-id]",
	Short: "Query server status or a specific comparison",
	Long: `Queries the server for comparison status information.
If no comparison-id is provided, lists all comparisons.
If a comparison-id is provided, shows detailed status for that comparison.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return listComparisons(fmt.Sprintf("%s/api/v1/comparisons", serverURL))
	}
	id := args[0]
	return getComparisonStatus(fmt.Sprintf("%s/api/v1/comparisons/%s/status", serverURL, id), id)
}

func listComparisons(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned error: %s", string(body))
	}

	var comparisons []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&comparisons); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(comparisons) == 0 {
		fmt.Println("No comparisons found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE\tSIZE\tERROR")
	for _, cmp := range comparisons {
		id, _ := cmp["id"].(string)
		state, _ := cmp["state"].(string)
		size, _ := cmp["imageSize"].(string)
		errMsg, _ := cmp["error"].(string)
		if len(id) > 12 {
			id = id[:12] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, state, size, errMsg)
	}
	w.Flush()

	fmt.Printf("\nTotal comparisons: %d\n", len(comparisons))
	return nil
}

func getComparisonStatus(url, id string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("comparison not found: %s", id)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned error: %s", string(body))
	}

	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(status)
}
