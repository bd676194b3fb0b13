package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// doctorProbe is classified once to prove the artifacts work end to end.
const doctorProbe = "http://example.com"

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the model artifacts load and classify",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		out := cmd.OutOrStdout()
		info := appInstance.ModelInfo()
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Component", "Value"})
		table.SetBorder(false)
		table.SetAutoWrapText(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.Append([]string{"Vectorizer", info.TransformerKind + " (" + info.TransformerPath + ")"})
		table.Append([]string{"Classifier", info.ClassifierKind + " (" + info.ClassifierPath + ")"})
		table.Append([]string{"Features", strconv.Itoa(info.NumFeatures)})
		table.Append([]string{"Classes", strings.Join(info.Classes, ", ")})
		table.Append([]string{"Phishing labels", strings.Join(info.PhishingLabels, ", ")})
		table.Render()

		fmt.Fprintf(out, "Classifying probe URL %s...\n", doctorProbe)
		prediction, err := appInstance.DetectionService.Classify(ctx, doctorProbe)
		if err != nil {
			fmt.Fprintf(out, "  - %s: %v\n", color.RedString("ERROR"), err)
			return fmt.Errorf("probe classification failed: %w", err)
		}
		fmt.Fprintf(out, "  - %s: label=%s confidence=%.3f\n", color.GreenString("OK"), prediction.Label, prediction.Probability)
		return nil
	},
}
