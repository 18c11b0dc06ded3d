package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/diagram/pkg/model"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [model-file]",
	Short: "Validate a model file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, args)
		if err != nil {
			return err
		}
		loader, err := a.loader()
		if err != nil {
			return err
		}
		root, err := loader.Load(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := model.Validate(root); err != nil {
			fmt.Fprintf(out, "%s is invalid:\n", loader.Path())
			errs := model.ValidationErrors(err)
			if len(errs) == 0 {
				errs = []error{err}
			}
			for _, e := range errs {
				fmt.Fprintf(out, "  - %v\n", e)
			}
			return errors.New("validation failed")
		}
		fmt.Fprintf(out, "Model is valid (%d elements)\n", model.Count(root))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
