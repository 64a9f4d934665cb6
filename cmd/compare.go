package main

import (
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/spf13/cobra"

	"pixeldiff/internal/diff"
	"pixeldiff/internal/store"
)

var (
	pathA           string
	pathB           string
	threshold       float64
	ignoreLuminance bool
	outDir          string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run a one-shot comparison of two image files",
	Long: `Compares two images and writes the composited diff images, the
normalized inputs and a stats JSON document into the output directory.`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&pathA, "a", "", "First (reference) image path (required)")
	compareCmd.Flags().StringVar(&pathB, "b", "", "Second image path (required)")
	compareCmd.Flags().Float64Var(&threshold, "threshold", 0.8, "Change sensitivity in [0, 1]")
	compareCmd.Flags().BoolVar(&ignoreLuminance, "ignore-luminance", false, "Restrict SSIM to contrast/structure")
	compareCmd.Flags().StringVar(&outDir, "out", "out", "Output directory")

	compareCmd.MarkFlagRequired("a")
	compareCmd.MarkFlagRequired("b")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	slog.Info("Starting comparison", "a", pathA, "b", pathB, "threshold", threshold)

	imgA, err := loadImage(pathA)
	if err != nil {
		return err
	}
	imgB, err := loadImage(pathB)
	if err != nil {
		return err
	}

	result, err := diff.Compare(cmd.Context(), imgA, imgB, diff.Options{
		Threshold:       threshold,
		IgnoreLuminance: ignoreLuminance,
	})
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	resultStore, err := store.NewFSStore(outDir)
	if err != nil {
		return fmt.Errorf("failed to create output store: %w", err)
	}
	if err := resultStore.SaveResult("compare", result); err != nil {
		return fmt.Errorf("failed to write outputs: %w", err)
	}

	summary, err := resultStore.LoadSummary("compare")
	if err != nil {
		return fmt.Errorf("failed to read back summary: %w", err)
	}

	// Print stats to stdout for scripting
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to print summary: %w", err)
	}

	slog.Info("Comparison written", "dir", filepath.Join(outDir, "comparisons", "compare"),
		"size", result.ImageSize)
	return nil
}

// loadImage decodes an image file into the engine format.
func loadImage(path string) (*diff.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return diff.FromImage(img), nil
}
