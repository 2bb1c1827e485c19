package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/huanfeng/storesim/pkg/models"
	"github.com/spf13/cobra"
)

var licenseCmd = &cobra.Command{
	Use:   "license",
	Short: "Show the current license information",
	Long:  `Print the app license and every product license held by the store backend.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openStore()
		if err != nil {
			return err
		}

		license := client.LicenseInformation()
		if license == nil {
			return fmt.Errorf("store backend returned no license information")
		}

		if ok, err := printStructured(license); ok {
			return err
		}

		printLicense(license)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(licenseCmd)
}

func formatExpiration(t time.Time) string {
	if t.Equal(models.DeveloperLicenseExpires) {
		return "never (developer license)"
	}
	return t.Format("2006-01-02 15:04:05 MST")
}

func printLicense(license *models.LicenseInformation) {
	fmt.Printf("=== License ===\n\n")
	fmt.Printf("Active: %t\n", license.IsActive)
	fmt.Printf("Trial: %t\n", license.IsTrial)
	fmt.Printf("Expires: %s\n", formatExpiration(license.ExpirationDate))

	if len(license.ProductLicenses) == 0 {
		return
	}

	ids := make([]string, 0, len(license.ProductLicenses))
	for id := range license.ProductLicenses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("\n=== Product Licenses ===\n\n")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT ID\tACTIVE\tCONSUMABLE\tEXPIRES")
	for _, id := range ids {
		pl := license.ProductLicenses[id]
		fmt.Fprintf(w, "%s\t%t\t%t\t%s\n", id, pl.IsActive, pl.IsConsumable, formatExpiration(pl.ExpirationDate))
	}
	w.Flush()
}
