package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/huanfeng/storesim/internal/config"
	"github.com/huanfeng/storesim/internal/i18n"
	"github.com/huanfeng/storesim/pkg/simulator"
	"github.com/spf13/cobra"
)

const sampleDocumentName = "WindowsStoreProxy.xml"

var (
	initForce       bool
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration template and a sample simulator document",
	Long:  `Create storesim.yaml and a sample simulator XML document in the current directory.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.FileName

		opts := simulator.DefaultSampleOptions()
		if initInteractive {
			opts = interactiveSample(bufio.NewReader(os.Stdin), opts)
		}

		if err := writeIfAbsent(configPath, config.SaveTemplate); err != nil {
			return err
		}

		return writeIfAbsent(sampleDocumentName, func(path string) error {
			file, err := os.Create(path)
			if err != nil {
				return err
			}
			defer file.Close()
			return simulator.WriteSample(file, opts)
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing files")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Prompt for the sample listing values")
}

// writeIfAbsent runs write unless path exists and --force is not set
func writeIfAbsent(path string, write func(string) error) error {
	if _, err := os.Stat(path); err == nil && !initForce {
		fmt.Println(i18n.T("init.exists", map[string]interface{}{"Path": path}))
		return nil
	}

	if err := write(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Println(i18n.T("init.written", map[string]interface{}{"Path": path}))
	return nil
}

// interactiveSample asks for the listing values of the sample document
func interactiveSample(reader *bufio.Reader, opts simulator.SampleOptions) simulator.SampleOptions {
	fmt.Println("Simulator Listing Wizard")
	fmt.Println("========================")
	fmt.Println()

	if id, err := uuid.Parse(promptWithDefault(reader, "App id", opts.AppID.String())); err == nil {
		opts.AppID = id
	} else {
		fmt.Printf("⚠️  Invalid app id, keeping %s\n", opts.AppID)
	}

	opts.Name = promptWithDefault(reader, "App name", opts.Name)
	opts.Description = promptWithDefault(reader, "Description", opts.Description)
	opts.Market = promptWithDefault(reader, "Market", opts.Market)
	opts.Price = promptWithDefault(reader, "Price", opts.Price)
	opts.CurrencySymbol = promptWithDefault(reader, "Currency symbol", opts.CurrencySymbol)

	if age, err := strconv.ParseUint(promptWithDefault(reader, "Age rating", fmt.Sprint(opts.AgeRating)), 10, 32); err == nil {
		opts.AgeRating = uint(age)
	}

	opts.Trial = promptBool(reader, "Start in trial mode", opts.Trial)
	if !promptBool(reader, "Include a sample in-app product", len(opts.Products) > 0) {
		opts.Products = nil
	}
	return opts
}

// Helper functions
func promptWithDefault(reader *bufio.Reader, prompt, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Printf("%s: ", prompt)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultValue
	}
	return input
}

func promptBool(reader *bufio.Reader, prompt string, defaultValue bool) bool {
	defaultStr := "n"
	if defaultValue {
		defaultStr = "y"
	}

	fmt.Printf("%s [%s]: ", prompt, defaultStr)
	input, _ := reader.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))

	if input == "" {
		return defaultValue
	}

	return input == "y" || input == "yes"
}
