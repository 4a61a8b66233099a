package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/thesisrec/internal/domain/stats"
	diaguc "github.com/kailas-cloud/thesisrec/internal/usecase/diagnostics"
)

// NewStatsCmd creates the 'stats' command with its 'tags' and 'programs' subcommands.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Corpus statistics",
	}
	cmd.AddCommand(newTagStatsCmd())
	cmd.AddCommand(newProgramStatsCmd())
	return cmd
}

func newTagStatsCmd() *cobra.Command {
	var (
		corpus     corpusFlags
		prog       string
		top        int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "tags",
		Short:   "Most frequent technical tags",
		Example: `  thesisrec-cli stats tags --csv subjects.csv --program GI --top 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := parseProgram(prog)
			if err != nil {
				return err
			}
			catalog, _, err := corpus.load(cmd.Context())
			if err != nil {
				return err
			}

			counts, err := diaguc.New(catalog, diaguc.Config{}).TagFrequency(p, top)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), counts)
			}
			for _, c := range counts {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %d\n", c.Tag, c.Count)
			}
			return nil
		},
	}

	corpus.register(cmd)
	cmd.Flags().StringVarP(&prog, "program", "p", "", "Program filter: GI, GE, GC or all")
	cmd.Flags().IntVarP(&top, "top", "n", stats.DefaultTopTags, "Number of tags")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

func newProgramStatsCmd() *cobra.Command {
	var (
		corpus     corpusFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "programs",
		Short: "Subject count per program",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, batch, err := corpus.load(cmd.Context())
			if err != nil {
				return err
			}

			counts, err := diaguc.New(catalog, diaguc.Config{}).ProgramDistribution()
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), counts)
			}
			out := cmd.OutOrStdout()
			for _, c := range counts {
				fmt.Fprintf(out, "%-4s %d\n", c.Program, c.Count)
			}
			fmt.Fprintf(out, "total %d (dropped %d, skipped %d, duplicates %d)\n",
				stats.Total(counts), batch.Dropped, batch.Skipped, batch.Duplicates)
			return nil
		},
	}

	corpus.register(cmd)
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}
