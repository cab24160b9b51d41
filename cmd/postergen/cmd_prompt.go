package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"postergen/internal/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var (
	promptWatch bool
	promptRaw   bool
)

// promptCmd shows the compiled prompt without calling the model
var promptCmd = &cobra.Command{
	Use:   "prompt [form.yaml]",
	Short: "Show the compiled poster prompt for a form file",
	Long: `Compiles the form exactly as generate would and prints the numbered image
attachments followed by the instruction text. No model is called, so no API
key is needed. The default logo is fetched when custom branding is off.

With --watch the prompt is recompiled whenever the form file changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrompt,
}

func init() {
	promptCmd.Flags().BoolVarP(&promptWatch, "watch", "w", false, "Re-render when the form file changes")
	promptCmd.Flags().BoolVar(&promptRaw, "raw", false, "Print plain text instead of rendered markdown")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	if !promptWatch {
		ctx, cancel := commandContext()
		defer cancel()
		return printPrompt(ctx, out, path)
	}

	ctx, stop := signalContext()
	defer stop()
	if err := printPrompt(ctx, out, path); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	}
	return watchFile(ctx, path, 200*time.Millisecond, func() {
		fmt.Fprintln(out)
		if err := printPrompt(ctx, out, path); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	})
}

func printPrompt(ctx context.Context, w io.Writer, path string) error {
	f, err := loadForm(path)
	if err != nil {
		return err
	}
	compiled, err := newCompiler().Compile(ctx, f)
	if err != nil {
		return err
	}
	return renderPrompt(w, compiled, promptRaw)
}

// watchFile calls onChange after writes to path settle for the debounce
// interval. It returns when ctx is done. The parent directory is watched so
// editors that replace the file on save are seen.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	logging.BootDebug("watching %s", abs)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.BootError("watcher: %v", err)
		case <-timer.C:
			onChange()
		}
	}
}
