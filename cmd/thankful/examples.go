package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var examplesCmd = &cobra.Command{
	Use:   "examples [category]",
	Short: "Show common things people are thankful for",
	Long: `Without a category, list the example categories. With a category, list its
examples. Set examples.path in the config file to use your own catalog.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			heading := color.New(color.Bold, color.Underline)
			heading.Println("Categories")
			for _, category := range catalog.Categories() {
				fmt.Println(category)
			}
			return nil
		}

		items, ok := catalog.Examples(args[0])
		if !ok {
			return fmt.Errorf("unknown category: %s", args[0])
		}
		color.New(color.Bold, color.Underline).Println(args[0])
		for _, item := range items {
			fmt.Printf("  %s\n", item)
		}
		return nil
	},
}
