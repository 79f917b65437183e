package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/vyapar-labs/siterisk/internal/model"
)

var (
	analyzeBusinessType string
	analyzeLocation     string
	analyzePincode      string
	analyzePretty       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a one-shot risk analysis and print the result as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initApp(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		analysis, err := env.Analyzer.Analyze(ctx, model.AnalysisRequest{
			BusinessType: analyzeBusinessType,
			Location:     analyzeLocation,
			Pincode:      analyzePincode,
		})
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		enc := json.NewEncoder(os.Stdout)
		if analyzePretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(analysis)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeBusinessType, "business-type", "", "business type, e.g. cafe or retail (required)")
	analyzeCmd.Flags().StringVar(&analyzeLocation, "location", "", "area name or free-text location (required)")
	analyzeCmd.Flags().StringVar(&analyzePincode, "pincode", "", "Delhi pincode used when the area lookup misses")
	analyzeCmd.Flags().BoolVar(&analyzePretty, "pretty", false, "indent the JSON output")
	_ = analyzeCmd.MarkFlagRequired("business-type")
	_ = analyzeCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(analyzeCmd)
}
