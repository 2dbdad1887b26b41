package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Mohsinsiddi/inkctl/internal/config"
	"github.com/Mohsinsiddi/inkctl/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Fprintln(out, string(data))
		ui.PrintNameValue(out, "Timeout", cfg.Timeout().String(), config.KeyColumnWidth)
		ui.PrintNameValue(out, "Directory", ui.Meta(cfg.Dir()), config.KeyColumnWidth)
		return nil
	},
}

var configSetURLCmd = &cobra.Command{
	Use:   "set-url <url>",
	Short: "Set the default node URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetURL(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Default URL set to %s", cfg.DefaultURL)))
		return nil
	},
}

var configSetSS58Cmd = &cobra.Command{
	Use:   "set-ss58-prefix <n>",
	Short: "Set the SS58 prefix used to display addresses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid SS58 prefix %q: %w", args[0], err)
		}
		if err := cfg.SetSS58Prefix(n); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("SS58 prefix set to %d", n)))
		return nil
	},
}

var configSetTimeoutCmd = &cobra.Command{
	Use:   "set-timeout <seconds>",
	Short: "Set how long to wait for block inclusion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", args[0], err)
		}
		if err := cfg.SetInclusionTimeout(n); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Inclusion timeout set to %s", cfg.Timeout())))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd, configSetURLCmd, configSetSS58Cmd, configSetTimeoutCmd)
}
