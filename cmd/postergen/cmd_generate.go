package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var generateOut string

// generateCmd generates one poster from a form file
var generateCmd = &cobra.Command{
	Use:   "generate [form.yaml]",
	Short: "Generate a poster from a form file",
	Long: `Compiles the form into a multimodal prompt and asks the poster model for
one image.

Example:
  postergen generate event.yaml -o poster.png`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOut, "output", "o", "", "Output file or directory (default: {prefix}-Event-Poster.{ext})")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	p, err := loadPatch(args[0])
	if err != nil {
		return err
	}
	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	if _, err := sess.Form().Update(p); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	f := sess.Form().Snapshot()
	logger.Info("Generating poster",
		zap.String("event", f.EventName),
		zap.String("aspect_ratio", string(f.AspectRatio)),
		zap.Int("speakers", len(f.Speakers)))

	item, err := sess.Generate(ctx)
	if err != nil {
		return err
	}

	path := outputPath(generateOut, sess.PosterFileName(*item))
	if err := os.WriteFile(path, item.Image.Data, 0644); err != nil {
		return fmt.Errorf("write poster: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Poster written to %s (%s, %d bytes)\n", path, item.Image.MimeType, len(item.Image.Data))

	stats := tracker.Stats()
	logger.Info("Token usage",
		zap.Int64("input", stats.Total.Input),
		zap.Int64("output", stats.Total.Output))
	return nil
}
