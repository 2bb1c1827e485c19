package cmd

import "github.com/huanfeng/storesim/internal/i18n"

// applyCommandLocalization updates command and flag descriptions after i18n is initialized.
func applyCommandLocalization() {
	// Root command metadata and flags.
	rootCmd.Short = i18n.T("cmd.root.short")
	rootCmd.Long = i18n.T("cmd.root.long")

	persistent := map[string]string{
		"config":    "flags.config",
		"lang":      "flags.lang",
		"region":    "flags.region",
		"log-level": "flags.logLevel",
		"output":    "flags.output",
	}
	for name, id := range persistent {
		if flag := rootCmd.PersistentFlags().Lookup(name); flag != nil {
			flag.Usage = i18n.T(id)
		}
	}

	// Command descriptions.
	listingCmd.Short = i18n.T("cmd.listing.short")
	listingCmd.Long = i18n.T("cmd.listing.long")

	licenseCmd.Short = i18n.T("cmd.license.short")
	licenseCmd.Long = i18n.T("cmd.license.long")

	validateCmd.Short = i18n.T("cmd.validate.short")
	validateCmd.Long = i18n.T("cmd.validate.long")

	purchaseCmd.Short = i18n.T("cmd.purchase.short")
	purchaseCmd.Long = i18n.T("cmd.purchase.long")
	if flag := purchaseCmd.PersistentFlags().Lookup("receipt"); flag != nil {
		flag.Usage = i18n.T("flags.receipt")
	}

	receiptCmd.Short = i18n.T("cmd.receipt.short")
	receiptCmd.Long = i18n.T("cmd.receipt.long")

	watchCmd.Short = i18n.T("cmd.watch.short")
	watchCmd.Long = i18n.T("cmd.watch.long")

	initCmd.Short = i18n.T("cmd.init.short")
	initCmd.Long = i18n.T("cmd.init.long")
	if flag := initCmd.Flags().Lookup("force"); flag != nil {
		flag.Usage = i18n.T("flags.force")
	}

	doctorCmd.Short = i18n.T("cmd.doctor.short")
	doctorCmd.Long = i18n.T("cmd.doctor.long")

	versionCmd.Short = i18n.T("cmd.version.short")
	versionCmd.Long = i18n.T("cmd.version.long")
}
