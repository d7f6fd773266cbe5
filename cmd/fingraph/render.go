package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"fingraph/internal/chart"
	"fingraph/internal/logger"
	"fingraph/internal/view"
)

var (
	renderOut    string
	renderPNG    bool
	renderWidth  int
	renderHeight int
)

var renderCmd = &cobra.Command{
	Use:   "render <id>",
	Short: "Write the price and equity charts of a backtest to a file",
	Long: `render writes a standalone HTML page holding both charts. With --png the
page is rasterised through headless Chrome instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default <id>.html or <id>.png)")
	renderCmd.Flags().BoolVar(&renderPNG, "png", false, "export a PNG screenshot instead of HTML")
	renderCmd.Flags().IntVar(&renderWidth, "width", 1280, "PNG viewport width in pixels")
	renderCmd.Flags().IntVar(&renderHeight, "height", 960, "PNG viewport height in pixels")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, closeLogs, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLogs()
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	id := args[0]
	v, ok := view.Normalize(id, client.FetchRaw(cmd.Context(), id))
	if !ok {
		return fmt.Errorf("strategy %q not found", id)
	}

	var page bytes.Buffer
	if err := chart.RenderPage(&page, v, chart.OptionsFromConfig(cfg.Chart)); err != nil {
		return err
	}
	data := page.Bytes()
	ext := ".html"
	if renderPNG {
		timeout := time.Duration(cfg.Chart.SnapshotTimeoutSeconds) * time.Second
		data, err = chart.Snapshot(cmd.Context(), data, renderWidth, renderHeight, timeout)
		if err != nil {
			return err
		}
		ext = ".png"
	}

	out := renderOut
	if out == "" {
		out = safeFileName(id) + ext
	}
	if dir := filepath.Dir(out); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	logger.Infof("chart written to %s (%d bytes)", out, len(data))
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// safeFileName keeps ids usable as file names.
func safeFileName(id string) string {
	b := []byte(id)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
		default:
			b[i] = '_'
		}
	}
	return string(b)
}
