package main

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"postergen/internal/form"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var extractApply string

// extractCmd reads event details off an invitation document
var extractCmd = &cobra.Command{
	Use:   "extract [document]",
	Short: "Extract event details from an invitation PDF or image",
	Long: `Sends the document to the extraction model and prints the recognised
fields as YAML. With --apply the fields are written into a form file,
replacing the event name, date, time, audience, format, location and
contact details. The file is created if it does not exist.

Example:
  postergen extract invitation.pdf --apply event.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractApply, "apply", "", "Form file to update with the extracted fields")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	doc := form.NewBlob(filepath.Base(args[0]), data, mime.TypeByExtension(filepath.Ext(args[0])))

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	if _, err := sess.Form().SetUpload(doc); err != nil {
		return err
	}
	f, err := sess.Extract(ctx)
	if err != nil {
		return err
	}

	ff := &formFile{}
	if extractApply != "" {
		if existing, err := readFormFile(extractApply); err == nil {
			ff = existing
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	ff.applyExtraction(extractionOf(f))

	if extractApply != "" {
		if err := writeFormFile(extractApply, ff); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", extractApply)
		return nil
	}
	out, err := yaml.Marshal(ff)
	if err != nil {
		return fmt.Errorf("encode extraction: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func extractionOf(f form.EventForm) form.Extraction {
	return form.Extraction{
		EventName:          f.EventName,
		Date:               f.Date,
		Time:               f.Time,
		TargetAudience:     f.TargetAudience,
		IsOnline:           f.IsOnline,
		LocationOrPlatform: f.LocationOrPlatform,
		ContactName:        f.ContactName,
		ContactPhone:       f.ContactPhone,
		ContactEmail:       f.ContactEmail,
	}
}
