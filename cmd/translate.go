package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/myansub/subtran/internal"
	"github.com/myansub/subtran/internal/config"
	"github.com/myansub/subtran/internal/pipeline"
)

var (
	inputFile  string
	outputFile string
	targetCode string
	modeName   string
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a single file or archive locally",
	Long: `Run the same translation pipeline as the bot on a local file,
without Telegram. The input may be a subtitle file, a .str string file, or a
ZIP archive of them.

Languages: my (Burmese), en (English), ja (Japanese), th (Thai),
ko (Korean), zh (Chinese).
Modes: normal, adult (adult-safe subtitles).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		target, ok := internal.LanguageByCode(targetCode)
		if !ok {
			return fmt.Errorf("unsupported target language %q", targetCode)
		}

		mode := internal.ModeNormal
		if modeName == string(internal.ModeAdultSafe) {
			mode = internal.ModeAdultSafe
		} else if modeName != string(internal.ModeNormal) {
			return fmt.Errorf("unknown mode %q", modeName)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

		p, closeFn, err := buildPipeline(cfg, logger)
		if err != nil {
			return err
		}
		defer closeFn()

		in, err := os.Open(inputFile)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}

		// A fixed local user id; the pipeline scopes staging and working
		// directories by it.
		const localUser int64 = 0

		_, err = p.Receive(localUser, inputFile, in)
		in.Close()
		if err != nil {
			return err
		}

		status, err := p.Run(context.Background(), localUser, target, mode, copyDeliverer{dest: outputFile})
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stderr, status)
		return nil
	},
}

// copyDeliverer copies the pipeline output to the requested destination
// before the pipeline's cleanup removes it.
type copyDeliverer struct {
	dest string
}

func (d copyDeliverer) SendDocument(_ int64, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return os.WriteFile(d.dest, data, 0o644)
}

var _ pipeline.Deliverer = copyDeliverer{}

func init() {
	translateCmd.Flags().StringVarP(&inputFile, "in", "i", "", "input file (required)")
	translateCmd.Flags().StringVarP(&outputFile, "out", "o", "", "output file (required)")
	translateCmd.Flags().StringVarP(&targetCode, "lang", "l", "en", "target language code")
	translateCmd.Flags().StringVarP(&modeName, "mode", "m", "normal", "translation mode (normal|adult)")
	translateCmd.MarkFlagRequired("in")
	translateCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(translateCmd)
}
