package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/huanfeng/storesim/internal/i18n"
	"github.com/huanfeng/storesim/pkg/simulator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <simulator-xml>",
	Short: "Validate a simulator configuration document",
	Long:  `Parse a simulator XML document and report the listing, license and method overrides it defines.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer file.Close()

		snapshot, err := simulator.Parse(file, hostLocale())
		if err != nil {
			return err
		}

		if ok, err := printStructured(snapshot); ok {
			return err
		}

		var failing []string
		for method, succeeds := range snapshot.Methods {
			if !succeeds {
				failing = append(failing, method)
			}
		}
		sort.Strings(failing)

		fmt.Println(i18n.T("validate.ok", map[string]interface{}{
			"Path":      path,
			"Products":  snapshot.ProductCount(),
			"Overrides": len(failing),
		}))
		for _, method := range failing {
			if method == "" {
				method = "(empty method name)"
			}
			fmt.Printf("  ✗ %s\n", method)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
