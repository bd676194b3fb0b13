package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"phishdetect/internal/clix"
	"phishdetect/internal/models"
)

var (
	classifyFile        string
	classifyConcurrency int
	classifyJSON        bool
)

type classifyOutcome struct {
	URL        string             `json:"url"`
	Prediction *models.Prediction `json:"prediction,omitempty"`
	Error      string             `json:"error,omitempty"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify [url...]",
	Short: "Classify URLs from the command line",
	Long: `Classifies each URL given as an argument or listed in --file (one per line,
"-" for stdin) and prints the verdicts in input order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		urls, err := clix.ParseURLs(cmd.Flags(), args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		concurrency, err := clix.ParseConcurrency(cmd.Flags())
		if err != nil {
			return err
		}

		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		log.Debugf("Classifying %d URLs with concurrency %d", len(urls), concurrency)

		outcomes := make([]classifyOutcome, len(urls))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(concurrency)
		for i, u := range urls {
			g.Go(func() error {
				outcomes[i].URL = u
				prediction, err := appInstance.DetectionService.Classify(ctx, u)
				if err != nil {
					outcomes[i].Error = err.Error()
					return nil
				}
				outcomes[i].Prediction = prediction
				return nil
			})
		}
		_ = g.Wait()

		if classifyJSON {
			if err := writeOutcomesJSON(cmd.OutOrStdout(), outcomes); err != nil {
				return err
			}
		} else {
			writeOutcomesTable(cmd.OutOrStdout(), outcomes)
		}

		failed := 0
		for _, o := range outcomes {
			if o.Error != "" {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d URLs could not be classified", failed, len(outcomes))
		}
		return nil
	},
}

func writeOutcomesJSON(w io.Writer, outcomes []classifyOutcome) error {
	enc := json.NewEncoder(w)
	for _, o := range outcomes {
		if err := enc.Encode(o); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}
	return nil
}

func writeOutcomesTable(w io.Writer, outcomes []classifyOutcome) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"URL", "Label", "Verdict", "Confidence"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, o := range outcomes {
		if o.Prediction == nil {
			table.Append([]string{o.URL, "N/A", color.RedString("ERROR"), o.Error})
			continue
		}
		verdict := color.GreenString(o.Prediction.Verdict())
		if o.Prediction.Phishing {
			verdict = color.YellowString(o.Prediction.Verdict())
		}
		table.Append([]string{
			o.URL,
			o.Prediction.Label,
			verdict,
			fmt.Sprintf("%.1f%%", o.Prediction.Probability*100),
		})
	}
	table.Render()
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVarP(&classifyFile, "file", "f", "", "Read URLs from a file, one per line ('-' for stdin)")
	classifyCmd.Flags().IntVarP(&classifyConcurrency, "concurrency", "c", 0, "Number of URLs classified in parallel (default: number of CPUs)")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print one JSON object per URL instead of a table")
}
