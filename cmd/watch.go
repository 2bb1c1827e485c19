package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huanfeng/storesim/internal/errors"
	"github.com/huanfeng/storesim/internal/i18n"
	"github.com/huanfeng/storesim/pkg/simulator"
	"github.com/huanfeng/storesim/pkg/store"
	"github.com/huanfeng/storesim/pkg/utils"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Serve the simulator and reload it when its configuration changes",
	Long:  `Watch the simulator configuration file and reload the listing every time it is written.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appCfg.Store.SimulatorConfig
		if path == "" {
			return errors.NewError(errors.ErrorTypeConfiguration, "WATCH_NO_DOCUMENT",
				"watch needs a simulator configuration document").
				WithSuggestion("Set store.simulator_config or STORESIM_STORE_SIMULATOR_CONFIG")
		}

		sim, err := store.OpenSimulator(appCfg.Store,
			store.WithLogger(utils.GetGlobalLogger()),
			store.WithLocale(hostLocale()))
		if err != nil {
			return err
		}

		watcher, err := simulator.NewWatcher(sim, path)
		if err != nil {
			return err
		}
		watcher.SetReloadCallback(func(err error) {
			if err != nil {
				fmt.Println(i18n.T("watch.rejected", map[string]interface{}{"Error": err.Error()}))
				return
			}
			snap := sim.Snapshot()
			fmt.Println(i18n.T("watch.reloaded", map[string]interface{}{
				"Name":     snap.Listing.Listing.Name,
				"Products": snap.ProductCount(),
			}))
		})

		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Println(i18n.T("watch.started", map[string]interface{}{"Path": path}))
		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
