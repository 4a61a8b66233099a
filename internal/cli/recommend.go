package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/thesisrec/internal/domain/query"
	"github.com/kailas-cloud/thesisrec/internal/domain/recommendation"
	recommenduc "github.com/kailas-cloud/thesisrec/internal/usecase/recommend"
)

type recommendOptions struct {
	corpus     corpusFlags
	query      string
	weights    string
	program    string
	top        int
	jsonOutput bool
}

// NewRecommendCmd creates the 'recommend' command.
func NewRecommendCmd() *cobra.Command {
	var opts recommendOptions

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank thesis subjects against a query",
		Long: `Rank the subjects of a CSV corpus by TF-IDF cosine similarity to a
free-text query or to weighted keywords.`,
		Example: `  thesisrec-cli recommend --csv subjects.csv --query "vision par ordinateur"
  thesisrec-cli recommend --csv subjects.csv --weights "ia=5,image=2" --program GI --top 5
  thesisrec-cli recommend --csv subjects.csv --query python --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, opts)
		},
	}

	opts.corpus.register(cmd)
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Free-text query")
	cmd.Flags().StringVarP(&opts.weights, "weights", "w", "", `Weighted keywords, e.g. "ia=5,image=2"`)
	cmd.Flags().StringVarP(&opts.program, "program", "p", "", "Program filter: GI, GE, GC or all")
	cmd.Flags().IntVarP(&opts.top, "top", "n", recommendation.DefaultTopN, "Number of results")
	cmd.Flags().BoolVarP(&opts.jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

type recommendationJSON struct {
	Rank       int      `json:"rank"`
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Program    string   `json:"program"`
	Score      float64  `json:"score"`
	Matched    []string `json:"matched_tags"`
	Annotation string   `json:"annotation"`
}

func runRecommend(cmd *cobra.Command, opts recommendOptions) error {
	p, err := parseProgram(opts.program)
	if err != nil {
		return err
	}
	if opts.top < 1 || opts.top > recommendation.MaxTopN {
		return fmt.Errorf("--top must be between 1 and %d", recommendation.MaxTopN)
	}

	var q query.Query
	if opts.weights != "" {
		terms, err := query.ParseWeights(opts.weights)
		if err != nil {
			return err
		}
		q, err = query.NewWeighted(opts.query, terms)
		if err != nil {
			return err
		}
	} else {
		q, err = query.NewPlain(opts.query)
		if err != nil {
			return err
		}
	}

	catalog, _, err := opts.corpus.load(cmd.Context())
	if err != nil {
		return err
	}

	res, err := recommenduc.New(catalog, 0).Recommend(cmd.Context(),
		recommenduc.Request{Query: q, Program: p, TopN: opts.top})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		items := res.Items()
		rows := make([]recommendationJSON, len(items))
		for i := range items {
			s := items[i].Subject()
			rows[i] = recommendationJSON{
				Rank:       i + 1,
				ID:         s.ID(),
				Title:      s.Title(),
				Program:    s.Program().String(),
				Score:      items[i].Score(),
				Matched:    items[i].MatchedTags(),
				Annotation: items[i].Annotation(),
			}
		}
		return writeJSON(out, rows)
	}
	printResult(out, &res)
	return nil
}

func printResult(w io.Writer, res *recommendation.Result) {
	if res.IsEmpty() {
		switch res.Reason() {
		case recommendation.ReasonEmptyQuery:
			fmt.Fprintln(w, "Empty query: nothing to rank.")
		case recommendation.ReasonOutOfVocabulary:
			fmt.Fprintln(w, "None of the query words appear in the corpus.")
		default:
			fmt.Fprintln(w, "No matching subject.")
		}
		return
	}

	fmt.Fprintf(w, "Results for %q (%d):\n\n", res.Query(), res.Len())
	items := res.Items()
	for i := range items {
		s := items[i].Subject()
		fmt.Fprintf(w, "%2d. [%s] %s  (%s, %.3f)\n", i+1, s.ID(), s.Title(), s.Program(), items[i].Score())
		fmt.Fprintf(w, "    %s\n", strings.TrimSpace(items[i].Annotation()))
	}
}
