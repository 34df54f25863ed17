package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/spf13/cobra"

	sberrors "github.com/memtensor/songbook/pkg/errors"
	"github.com/memtensor/songbook/pkg/importer"
	"github.com/memtensor/songbook/pkg/interfaces"
	"github.com/memtensor/songbook/pkg/metrics"
	"github.com/memtensor/songbook/pkg/songbook"
	"github.com/memtensor/songbook/pkg/types"
)

// retryDelay is the base delay between import attempts
var retryDelay = 500 * time.Millisecond

func newImportCommand(ctx *commandContext) *cobra.Command {
	var (
		retries int
		output  string
		asSong  bool
	)

	cmd := &cobra.Command{
		Use:   "import <url>",
		Short: "Fetch a chord page and extract a song draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if retries < 0 {
				return fmt.Errorf("--retries must not be negative")
			}
			log := newLogger(cmd.ErrOrStderr(), cfg)
			imp := importer.New(cfg, log, metrics.NewNoOpMetrics())

			draft, err := importWithRetry(cmd.Context(), imp, args[0], retries, log)
			if err != nil {
				return fmt.Errorf("import failed: %s", sberrors.UserMessage(err))
			}

			if asSong {
				song, err := songbook.SongFromDraft(draft)
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, song, func() string { return formatSong(song) })
			}
			return writeOutput(cmd, output, draft, func() string { return formatDraft(draft) })
		},
	}

	cmd.Flags().IntVar(&retries, "retries", 0, "Retry failed fetches this many times")
	cmd.Flags().BoolVar(&asSong, "song", false, "Print a complete song record instead of the draft")
	addOutputFlag(cmd, &output)
	return cmd
}

// importWithRetry retries fetch failures only. Extraction failures are
// deterministic for a given page and are returned at once.
func importWithRetry(ctx context.Context, imp interfaces.Importer, url string, retries int, log interfaces.Logger) (*types.ImportDraft, error) {
	var draft *types.ImportDraft
	err := retry.Do(
		func() error {
			d, err := imp.Import(ctx, url)
			if err != nil {
				return err
			}
			draft = d
			return nil
		},
		retry.Attempts(uint(retries)+1),
		retry.Delay(retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return sberrors.IsCode(err, sberrors.ErrCodeFetchFailed)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("Import attempt failed, retrying", map[string]interface{}{
				"attempt": n + 1,
				"url":     url,
				"error":   err.Error(),
			})
		}),
		retry.Context(ctx),
	)
	return draft, err
}

func formatDraft(d *types.ImportDraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title:  %s\n", d.Title)
	fmt.Fprintf(&b, "Artist: %s\n", d.Artist)
	if d.Album != "" {
		fmt.Fprintf(&b, "Album:  %s\n", d.Album)
	}
	if d.Key != "" {
		fmt.Fprintf(&b, "Key:    %s\n", d.Key)
	}
	fmt.Fprintf(&b, "Source: %s\n\n", d.SourceURL)
	for _, l := range d.Lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

func formatSong(s *types.Song) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:     %s\n", s.ID)
	fmt.Fprintf(&b, "Title:  %s\n", s.Title)
	fmt.Fprintf(&b, "Artist: %s\n", s.Artist)
	if s.Key != "" {
		fmt.Fprintf(&b, "Key:    %s\n", s.Key)
	}
	if s.Capo != nil {
		fmt.Fprintf(&b, "Capo:   %d\n", *s.Capo)
	}
	if len(s.Tags) > 0 {
		fmt.Fprintf(&b, "Tags:   %s\n", strings.Join(s.Tags, ", "))
	}
	b.WriteByte('\n')
	for _, l := range s.Lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}
