package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huanfeng/storesim/internal/config"
	"github.com/huanfeng/storesim/internal/errors"
	"github.com/huanfeng/storesim/internal/i18n"
	"github.com/huanfeng/storesim/internal/version"
	"github.com/huanfeng/storesim/pkg/models"
	"github.com/huanfeng/storesim/pkg/simulator"
	"github.com/huanfeng/storesim/pkg/store"
	"github.com/huanfeng/storesim/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	langFlag     string
	regionFlag   string
	logLevelFlag string
	outputFormat string

	loader = config.NewLoader()
	appCfg *models.Config
)

var rootCmd = &cobra.Command{
	Use:   "storesim",
	Short: "storesim - a store listing and licensing simulator",
	Long: `storesim serves a fake store listing, license state and per-method success or failure
overrides from an XML document, so in-app purchase flows can be exercised without the real store.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and reports failures in detail
func Execute() {
	if err := i18n.Init(langFromArgs(os.Args[1:])); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	applyCommandLocalization()

	if err := rootCmd.Execute(); err != nil {
		handler := errors.NewErrorHandler(utils.GetGlobalLogger())
		if storeErr := handler.Handle(err); storeErr != nil && storeErr.Type != errors.ErrorTypeUnknown {
			fmt.Fprint(os.Stderr, storeErr.FormatDetailed())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	// setup reaches rootCmd through applyCommandLocalization, so it cannot
	// sit in the literal
	rootCmd.PersistentPreRunE = setup
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./storesim.yaml)")
	flags.StringVar(&langFlag, "lang", "", "language and culture, e.g. en-US or de-DE")
	flags.StringVar(&regionFlag, "region", "", "host region override, e.g. US")
	flags.StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVarP(&outputFormat, "output", "o", "", "output format: json or yaml")

	v := loader.Viper()
	_ = v.BindPFlag("locale.lang", flags.Lookup("lang"))
	_ = v.BindPFlag("locale.region", flags.Lookup("region"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
}

// setup loads configuration, then applies its language and logging settings
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := loader.Load(cfgFile)
	if err != nil {
		return err
	}
	appCfg = cfg

	if cfg.Locale.Lang != "" && cfg.Locale.Lang != langFlag {
		if err := i18n.Init(cfg.Locale.Lang); err != nil {
			return err
		}
		applyCommandLocalization()
	}

	if err := utils.InitGlobalLogger(&utils.LoggerConfig{
		Level:       utils.ParseLogLevel(cfg.Log.Level),
		Format:      utils.ParseLogFormat(cfg.Log.Format),
		Output:      os.Stderr,
		FilePath:    cfg.Log.File,
		EnableColor: true,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if used := loader.ConfigFileUsed(); used != "" {
		utils.Debug("Using config file %s", used)
	}
	return nil
}

// hostLocale is the culture and market the simulator formats for
func hostLocale() simulator.Locale {
	region := ""
	if appCfg != nil {
		region = appCfg.Locale.Region
	}
	return simulator.NewLocale(i18n.HostCulture(), i18n.HostRegion(region))
}

// openStore opens the configured store backend
func openStore() (store.Client, error) {
	return store.Open(appCfg.Store,
		store.WithLogger(utils.GetGlobalLogger()),
		store.WithLocale(hostLocale()))
}

// langFromArgs finds --lang before flags are parsed so help text is localized
func langFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--lang" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--lang="):
			return strings.TrimPrefix(arg, "--lang=")
		}
	}
	return ""
}
