package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/open-politics/open-politics-hq-sub007/internal/rules"
	"github.com/open-politics/open-politics-hq-sub007/internal/types"
	"github.com/spf13/cobra"
)

var (
	evalFlowFile  string
	evalAssetFile string
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a flow definition against an asset offline",
	Long: `Walks the flow's steps against one asset's JSON data: each FILTER
decides pass or drop, each ROUTE reports which branch the asset would
take. ANNOTATE and CURATE steps are listed but not executed; running
annotation models is the execution engine's job.`,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&evalFlowFile, "flow", "", "flow definition file (JSON pipeline document)")
	evalCmd.Flags().StringVar(&evalAssetFile, "asset", "", "asset data file (JSON)")
	evalCmd.MarkFlagRequired("flow")
	evalCmd.MarkFlagRequired("asset")
}

func runEval(cmd *cobra.Command, args []string) error {
	steps, err := loadPipelineFile(evalFlowFile)
	if err != nil {
		return err
	}

	assetData, err := os.ReadFile(evalAssetFile)
	if err != nil {
		return fmt.Errorf("failed to read asset file: %w", err)
	}

	for i, step := range steps {
		switch step.Kind {
		case types.StepFilter:
			if step.Filter == nil {
				continue
			}
			if rules.EvaluateExpression(step.Filter.Expression, json.RawMessage(assetData)) {
				fmt.Printf("step %d FILTER: pass\n", i)
				continue
			}
			fmt.Printf("step %d FILTER: drop\n", i)
			return nil

		case types.StepAnnotate:
			if step.Annotate == nil {
				continue
			}
			fmt.Printf("step %d ANNOTATE: schemas %v (not executed)\n", i, step.Annotate.SchemaIDs.Values())

		case types.StepCurate:
			if step.Curate == nil {
				continue
			}
			fields := step.Curate.Fields.Values()
			if len(fields) == 0 {
				fmt.Printf("step %d CURATE: all available fields (not executed)\n", i)
			} else {
				fmt.Printf("step %d CURATE: fields %v (not executed)\n", i, fields)
			}

		case types.StepRoute:
			if step.Route == nil {
				continue
			}
			decision := rules.SelectBranch(*step.Route, json.RawMessage(assetData))
			if !decision.Routed {
				fmt.Printf("step %d ROUTE: no branch matched\n", i)
				return nil
			}
			label := decision.Label
			if label == "" {
				label = fmt.Sprintf("branch %d", decision.BranchIndex)
			}
			fmt.Printf("step %d ROUTE: %s -> bundle %d\n", i, label, decision.DestinationID)
			return nil
		}
	}
	return nil
}
