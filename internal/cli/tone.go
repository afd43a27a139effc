package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arcitek-ai/arcitek/internal/media/wav"
	"github.com/arcitek-ai/arcitek/internal/xfs"
)

func toneCmd() *cobra.Command {
	var (
		out     string
		seconds float64
		tone    = wav.DemoTone(0)
		format  = wav.StudioFormat
	)

	cmd := &cobra.Command{
		Use:   "tone",
		Short: "Write a sine tone WAV file (the demo music fallback)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tone.Seconds = seconds

			var size int64
			err := xfs.WriteFileAtomic(out, func(f *os.File) error {
				n, err := wav.WriteTone(f, format, tone)
				size = n
				return err
			})
			if err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			cmd.Printf("Wrote %s (%s, %s, %gs)\n", out, humanize.Bytes(uint64(size)), wav.Quality(format), seconds)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&out, "output", "o", "tone.wav", "Output file")
	f.Float64VarP(&seconds, "duration", "d", 30, "Duration in seconds")
	f.Float64Var(&tone.Frequency, "frequency", tone.Frequency, "Frequency in Hz")
	f.Float64Var(&tone.Amplitude, "amplitude", tone.Amplitude, "Amplitude relative to full scale")
	f.IntVar(&format.SampleRate, "sample-rate", format.SampleRate, "Sample rate in Hz")
	f.IntVar(&format.Channels, "channels", format.Channels, "Number of channels")
	f.IntVar(&format.BitsPerSample, "bits", format.BitsPerSample, "Bits per sample (8, 16, 24 or 32)")

	return cmd
}
