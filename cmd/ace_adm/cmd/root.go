// Package cmd implements the ace_adm command tree: transform and lint
// pipelines over ADM modules (spec.md §6.3).
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dtnma-project/ace-ari/internal/util"
	"github.com/dtnma-project/ace-ari/transforms"
)

// Execute runs the ace_adm command tree, exiting the process on error or
// lint failure.
func Execute() {
	rootCmd := &cobra.Command{
		Use:   "ace_adm [module-file]",
		Short: "ace_adm applies transforms and lint checks to ADM modules",
		Args:  cobra.ExactArgs(1),
		RunE:  runAdm,
	}

	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	cfgFile := rootCmd.PersistentFlags().String("config_file", "", "Path to config file.")
	rootCmd.Flags().StringSliceP("transform", "t", nil, "Transform to apply, repeatable (add-enum, canonicalize).")
	rootCmd.Flags().StringP("format", "f", "json", "Module ingestion format: yang or json.")
	rootCmd.Flags().Bool("yang-canonical", false, "Always apply the canonicalize transform before emitting YANG.")
	rootCmd.Flags().Bool("ietf", false, "Apply IETF ADM naming conventions (implies --lint-ensure-hyphenated-names).")
	rootCmd.Flags().Bool("lint-ensure-hyphenated-names", false, "Treat non-hyphenated object names as a lint failure.")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *cfgFile != "" {
			viper.SetConfigFile(*cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config: %w", err)
			}
		}
		viper.BindPFlags(cmd.Flags())
		viper.AutomaticEnv()
		util.SetDebug(bool(log.V(1)))
		return nil
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAdm(cmd *cobra.Command, args []string) error {
	format := viper.GetString("format")
	transformNames := viper.GetStringSlice("transform")
	yangCanonical := viper.GetBool("yang-canonical")
	ietf := viper.GetBool("ietf")
	lintHyphenated := viper.GetBool("lint-ensure-hyphenated-names") || ietf

	m, err := loadModule(args[0], format)
	if err != nil {
		return err
	}

	if yangCanonical && !containsFold(transformNames, "canonicalize") {
		transformNames = append(transformNames, "canonicalize")
	}

	m, err = applyTransforms(m, transformNames)
	if err != nil {
		return err
	}

	findings := lintModule(m)
	for i := range findings {
		if lintHyphenated && strings.Contains(findings[i].Msg, "hyphen") {
			findings[i].Severity = transforms.SeverityError
		}
	}
	for _, f := range findings {
		fmt.Fprintln(os.Stderr, f.String())
	}
	if err := transforms.LintErrors(findings); err != nil {
		return err
	}
	return printModule(m, format)
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}
