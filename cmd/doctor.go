package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/huanfeng/storesim/internal/errors"
	"github.com/huanfeng/storesim/internal/i18n"
	"github.com/huanfeng/storesim/pkg/simulator"
	"github.com/huanfeng/storesim/pkg/store"
	"github.com/huanfeng/storesim/pkg/utils"
	"github.com/spf13/cobra"
)

// diagnosis collects the outcome of every doctor check
type diagnosis struct {
	issues      []string
	suggestions []string
	handler     *errors.ErrorHandler
}

// newDiagnosis records failures without logging them, the checks print
// their own results
func newDiagnosis() *diagnosis {
	return &diagnosis{handler: errors.NewErrorHandler(nil)}
}

func (d *diagnosis) pass(format string, args ...interface{}) {
	fmt.Printf("  ✅ %s\n", fmt.Sprintf(format, args...))
}

func (d *diagnosis) fail(issue string, err error) {
	fmt.Printf("  ❌ %s: %v\n", issue, err)
	d.issues = append(d.issues, fmt.Sprintf("%s: %v", issue, err))
	d.suggestions = append(d.suggestions, d.handler.Handle(err).Suggestions...)
}

// breakdown summarizes recorded failures by error type, e.g. "configuration: 2"
func (d *diagnosis) breakdown() []string {
	stats := d.handler.GetStats()
	lines := make([]string, 0, len(stats.ErrorsByType))
	for errType, count := range stats.ErrorsByType {
		lines = append(lines, fmt.Sprintf("%s: %d", strings.ToLower(errType.String()), count))
	}
	sort.Strings(lines)
	return lines
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the simulator setup",
	Long: `The doctor command checks everything the simulator needs before it can serve requests.

It checks:
- Configuration file and store mode
- Host culture, market and currency detection
- Host app manifest
- Simulator settings document
- File change notifications for watch mode`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := utils.GetGlobalLogger()
		logger.Info("Starting simulator diagnostics...")

		fmt.Println("🏥 storesim Doctor")
		fmt.Println(strings.Repeat("=", 50))

		d := newDiagnosis()

		fmt.Println("\n⚙️  Checking Configuration...")
		checkConfiguration(d)

		fmt.Println("\n🌐 Checking Host Locale...")
		checkLocale(d)

		fmt.Println("\n📄 Checking Simulator Inputs...")
		checkInputs(d)

		if appCfg.Store.Watch || appCfg.Store.SimulatorConfig != "" {
			fmt.Println("\n👀 Checking File Notifications...")
			checkNotifications(d)
		}

		fmt.Println("\n" + strings.Repeat("=", 50))
		if len(d.issues) == 0 {
			fmt.Println("✅ All checks passed! The simulator is ready.")
			return nil
		}

		fmt.Printf("❌ Found %d issues that need attention (%s):\n\n", len(d.issues), strings.Join(d.breakdown(), ", "))
		for i, issue := range d.issues {
			fmt.Printf("%d. %s\n", i+1, issue)
		}
		if len(d.suggestions) > 0 {
			fmt.Println("\n💡 Suggestions to fix these issues:")
			for i, suggestion := range d.suggestions {
				fmt.Printf("%d. %s\n", i+1, suggestion)
			}
		}

		return fmt.Errorf("simulator diagnostics found %d issues", len(d.issues))
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func checkConfiguration(d *diagnosis) {
	if used := loader.ConfigFileUsed(); used != "" {
		d.pass("Config file: %s", used)
	} else {
		d.pass("No config file found, using defaults and environment")
	}

	mode, err := store.ParseMode(appCfg.Store.Mode)
	if err != nil {
		d.fail("Store mode", err)
		return
	}
	d.pass("Store mode: %s", mode)
	if mode == store.ModeLive {
		d.fail("Store mode", errors.NewInvalidModeError(string(mode), "the CLI has no live store client"))
	}
}

func checkLocale(d *diagnosis) {
	loc := hostLocale()
	d.pass("Culture: %s (messages: %s)", loc.Culture, i18n.CurrentLanguage())
	d.pass("Market: %s", loc.RegionCode())

	if code := loc.CurrencyCode(); code != "" {
		d.pass("Currency: %s", code)
	} else {
		d.fail("Currency", fmt.Errorf("region %s has no currency", loc.RegionCode()))
	}
}

func checkInputs(d *diagnosis) {
	cfg := appCfg.Store
	if cfg.Manifest == "" && cfg.SimulatorConfig == "" {
		d.fail("Simulator inputs", errors.NewInvalidModeError(string(store.ModeSimulator),
			"neither store.manifest nor store.simulator_config is set"))
		return
	}

	if cfg.Manifest != "" {
		manifest, err := simulator.ManifestSourceFor(cfg.Manifest).ReadManifest()
		if err != nil {
			d.fail("Manifest "+cfg.Manifest, err)
		} else {
			d.pass("Manifest: %s (%s)", manifest.Title, manifest.ProductID)
		}
	}

	if cfg.SimulatorConfig != "" {
		file, err := os.Open(cfg.SimulatorConfig)
		if err != nil {
			d.fail("Simulator document "+cfg.SimulatorConfig, err)
			return
		}
		defer file.Close()

		snapshot, err := simulator.Parse(file, hostLocale())
		if err != nil {
			d.fail("Simulator document "+cfg.SimulatorConfig, err)
			return
		}
		d.pass("Simulator document: %s, %d products", snapshot.Listing.Listing.Name, snapshot.ProductCount())
	}
}

func checkNotifications(d *diagnosis) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.fail("File notifications", err)
		return
	}
	defer watcher.Close()
	d.pass("File notifications available")
}
