package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tabular-ml/tabular/internal/schema"
)

var (
	schemaOutput string

	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Inspect and generate column schema files",
	}

	schemaInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write the built-in click/rating schema to a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			group := defaultSchema()
			if err := schema.Save(group, schemaOutput); err != nil {
				return err
			}
			logrus.WithField("path", schemaOutput).Info("Schema written")
			return nil
		},
	}

	schemaShowCmd = &cobra.Command{
		Use:   "show <path>",
		Short: "Print the target columns of a schema file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := schema.Load(args[0])
			if err != nil {
				return err
			}

			for _, c := range group.Schemas() {
				fmt.Printf("%s: %v\n", c.Name, c.Tags)
			}
			fmt.Printf("binary targets: %v\n", group.GetTagged(schema.TagBinaryTarget).Columns())
			fmt.Printf("regression targets: %v\n", group.GetTagged(schema.TagRegressionTarget).Columns())
			return nil
		},
	}
)

func init() {
	schemaInitCmd.Flags().StringVarP(&schemaOutput, "output", "o", "schema.yaml", "Output path for the schema file")

	schemaCmd.AddCommand(schemaInitCmd)
	schemaCmd.AddCommand(schemaShowCmd)
}
