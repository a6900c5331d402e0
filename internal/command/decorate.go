package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stolasapp/tessera/internal/blocks"
	"github.com/stolasapp/tessera/internal/content"
	"github.com/stolasapp/tessera/internal/picture"
)

func decorateCommand() *cobra.Command {
	from := string(content.FormatPlain)
	cmd := &cobra.Command{
		Use:   "decorate [FILE]",
		Short: "decorate the blocks of a page",
		Long: "Reads a page from FILE, or stdin when omitted, runs the block decorators over\n" +
			"it and writes the decorated markup to stdout.\n\n" +
			"Decorated blocks: " + strings.Join(blocks.Default(picture.Optimized{}).Names(), ", "),
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{configOptional: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			decorate, err := content.Decorate(content.Format(from), newRegistry(cfg, logger))
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			output, err := decorate(cmd.Context(), input)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output)
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", from, formatUsage("input format"))
	return cmd
}

func convertCommand() *cobra.Command {
	var (
		from  = string(content.FormatPlain)
		to    = string(content.FormatAuthoring)
		title string
	)
	cmd := &cobra.Command{
		Use:   "convert [FILE]",
		Short: "convert a page between markup formats",
		Long: "Reads a page from FILE, or stdin when omitted, and writes it to stdout in\n" +
			"another format. Blocks are kept as tables in the authoring and markdown\n" +
			"formats, headed by the block's display name.",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{configOptional: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			output, err := content.Convert(cmd.Context(), content.Format(from), content.Format(to), title, input)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output)
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", from, formatUsage("input format"))
	cmd.Flags().StringVarP(&to, "to", "t", to, formatUsage("output format"))
	cmd.Flags().StringVar(&title, "title", "", "document title of authoring output")
	return cmd
}

func formatUsage(what string) string {
	return fmt.Sprintf("%s, one of %v", what, content.Formats)
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		input, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return input, nil
	}
	input, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return input, nil
}

func writeOutput(cmd *cobra.Command, output []byte) error {
	if _, err := cmd.OutOrStdout().Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
