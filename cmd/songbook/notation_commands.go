package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/memtensor/songbook/pkg/chords"
	"github.com/memtensor/songbook/pkg/markup"
	"github.com/memtensor/songbook/pkg/notation"
	"github.com/memtensor/songbook/pkg/songbook"
	"github.com/memtensor/songbook/pkg/types"
)

type normalizeOutput struct {
	Format string   `json:"format" yaml:"format"`
	Lines  []string `json:"lines" yaml:"lines"`
}

func newNormalizeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:         "normalize [file|-]",
		Short:       "Convert chords-above or (C)-style text into inline [C] markup",
		Args:        cobra.MaximumNArgs(1),
		Annotations: offlineAnnotation,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			lines, format := notation.ParseChordNotationFormat(input)
			out := normalizeOutput{Format: string(format), Lines: lines}
			return writeOutput(cmd, output, out, func() string { return joinLines(lines) })
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func newRenderCommand() *cobra.Command {
	var (
		transpose int
		notationF string
		mode      string
		normalize bool
		output    string
	)

	cmd := &cobra.Command{
		Use:         "render [file|-]",
		Short:       "Print inline markup with chords above the lyrics",
		Args:        cobra.MaximumNArgs(1),
		Annotations: offlineAnnotation,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			settings, err := renderSettings(mode, transpose, notationF)
			if err != nil {
				return err
			}

			var lines []types.RawChordLine
			if normalize {
				lines = notation.ParseChordNotation(input)
			} else {
				lines = notation.SplitLines(strings.TrimRight(input, "\r\n"))
			}
			rendered := markup.RenderLines(lines, settings)
			return writeOutput(cmd, output, rendered, func() string { return markup.TextBlock(rendered) })
		},
	}

	cmd.Flags().IntVarP(&transpose, "transpose", "t", 0, "Semitones to transpose by")
	cmd.Flags().StringVar(&notationF, "notation", string(types.NotationSharp), "Accidental spelling: sharp or flat")
	cmd.Flags().StringVar(&mode, "mode", string(types.ViewModeChords), "View mode: chords or lyrics")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Detect and convert the input chord layout first")
	addOutputFlag(cmd, &output)
	return cmd
}

func renderSettings(mode string, transpose int, n string) (types.RenderSettings, error) {
	settings := types.DefaultRenderSettings()
	switch types.ViewMode(strings.ToLower(strings.TrimSpace(mode))) {
	case types.ViewModeChords, "":
		settings.ViewMode = types.ViewModeChords
	case types.ViewModeLyrics:
		settings.ViewMode = types.ViewModeLyrics
	default:
		return settings, fmt.Errorf("unknown view mode %q (want chords or lyrics)", mode)
	}
	settings.TransposeSteps = transpose
	settings.Notation = types.ParseNotation(n)
	return settings, nil
}

func newTransposeCommand() *cobra.Command {
	var notationF string

	cmd := &cobra.Command{
		Use:         "transpose <chord> <steps>",
		Short:       "Transpose a single chord symbol",
		Example:     "  songbook transpose Am7/C 2\n  songbook transpose --notation flat -- C -3",
		Args:        cobra.ExactArgs(2),
		Annotations: offlineAnnotation,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("steps must be an integer: %q", args[1])
			}
			out := chords.TransposeChord(args[0], steps, types.ParseNotation(notationF))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&notationF, "notation", string(types.NotationSharp), "Accidental spelling: sharp or flat")
	return cmd
}

func newEntryCommand() *cobra.Command {
	var (
		entry  songbook.Entry
		output string
	)

	cmd := &cobra.Command{
		Use:         "new [file|-]",
		Short:       "Build a song record from typed-in lyrics and chords",
		Args:        cobra.MaximumNArgs(1),
		Annotations: offlineAnnotation,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			e := entry
			e.Text = strings.TrimRight(text, "\r\n")
			song, err := songbook.NewSongFromEntry(e)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, song, func() string { return formatSong(song) })
		},
	}

	cmd.Flags().StringVar(&entry.Title, "title", "", "Song title")
	cmd.Flags().StringVar(&entry.Artist, "artist", "", "Artist")
	cmd.Flags().StringVar(&entry.Key, "key", "", "Key, e.g. Am")
	cmd.Flags().StringVar(&entry.Capo, "capo", "", "Capo fret")
	cmd.Flags().StringVar(&entry.Tags, "tags", "", "Comma separated tags")
	cmd.Flags().BoolVar(&entry.Normalize, "normalize", false, "Detect and convert the input chord layout first")
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "Output format: yaml, json or text")
	return cmd
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
