package cmd

import (
	"fmt"
	"os"

	"github.com/open-politics/open-politics-hq-sub007/internal/catalog"
	"github.com/open-politics/open-politics-hq-sub007/internal/pipeline"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var (
	validateFlowFile    string
	validateSchemasFile string
	validateInputBundle int64
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a flow definition file offline",
	Long: `Checks every rule field reference and route destination in a flow
definition against the field catalog, without a database. The flow file
is the JSON pipeline document; the schema registry is a YAML file
mapping schema IDs to their declared output contracts.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateFlowFile, "flow", "", "flow definition file (JSON pipeline document)")
	validateCmd.Flags().StringVar(&validateSchemasFile, "schemas", "", "schema registry file (YAML)")
	validateCmd.Flags().Int64Var(&validateInputBundle, "input-bundle", 0, "flow input bundle ID for destination checks (0 skips)")
	validateCmd.MarkFlagRequired("flow")
}

// registryFile is the YAML shape of an offline schema registry.
type registryFile struct {
	Schemas map[int64]catalog.Schema `yaml:"schemas"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	steps, err := loadPipelineFile(validateFlowFile)
	if err != nil {
		return err
	}

	reg := catalog.Registry{}
	if validateSchemasFile != "" {
		reg, err = loadRegistryFile(validateSchemasFile)
		if err != nil {
			return err
		}
	}

	for i, step := range steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}

	findings := pipeline.Validate(steps, reg, validateInputBundle)
	if len(findings) == 0 {
		fmt.Println("ok: no findings")
		return nil
	}

	for _, f := range findings {
		switch f.Kind {
		case pipeline.KindUnknownFieldReference:
			fmt.Printf("step %d: unknown field reference %q\n", f.StepIndex, f.Field)
		case pipeline.KindInvalidDestination:
			fmt.Printf("step %d: branch destination %d is the flow's input bundle\n", f.StepIndex, f.DestinationID)
		}
	}
	// Findings are advisory; the definition is still valid. Non-zero
	// exit lets CI treat them as failures anyway.
	return fmt.Errorf("%d finding(s)", len(findings))
}

func loadPipelineFile(path string) (pipeline.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file: %w", err)
	}
	steps, err := pipeline.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse flow file: %w", err)
	}
	return steps, nil
}

func loadRegistryFile(path string) (catalog.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema registry: %w", err)
	}
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse schema registry: %w", err)
	}
	return catalog.Registry(file.Schemas), nil
}
