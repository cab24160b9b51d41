package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"postergen/internal/form"

	"github.com/spf13/cobra"
)

var cleanOut string

// cleanCmd strips text and logos from a background image
var cleanCmd = &cobra.Command{
	Use:   "clean-bg [image]",
	Short: "Remove text, logos and people from a background image",
	Long: `Asks the image model to keep only the background artwork of an image:
colours, gradients, shapes and decorative elements. The result can be
referenced from a form file as background_path.

Example:
  postergen clean-bg old-poster.jpg -o background.png`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanOut, "output", "o", "", "Output file (default: {name}-clean.{ext})")
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	img := form.NewBlob(filepath.Base(args[0]), data, mime.TypeByExtension(filepath.Ext(args[0])))
	if !img.IsImage() {
		return fmt.Errorf("%s is %s, not an image", args[0], img.MimeType())
	}

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	cleaned, err := sess.CleanBackground(ctx, img)
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	path := outputPath(cleanOut, stem+"-clean"+cleaned.Extension())
	if err := os.WriteFile(path, cleaned.Data, 0644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleaned background written to %s\n", path)
	return nil
}
