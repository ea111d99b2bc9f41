// Package cmd implements the ace_ari command tree: a line-oriented ARI
// transcoder between the text and CBOR wire forms (spec.md §6.3).
package cmd

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dtnma-project/ace-ari/cborcodec"
	"github.com/dtnma-project/ace-ari/internal/util"
	"github.com/dtnma-project/ace-ari/textcodec"
)

// Execute runs the ace_ari command tree, exiting the process on error.
func Execute() {
	rootCmd := &cobra.Command{
		Use:   "ace_ari",
		Short: "ace_ari transcodes Application Resource Identifiers between text and CBOR",
		RunE:  runTranscode,
	}

	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	cfgFile := rootCmd.PersistentFlags().String("config_file", "", "Path to config file.")
	rootCmd.Flags().String("inform", "text", "Input form: text, cbor, or cborhex.")
	rootCmd.Flags().String("outform", "text", "Output form: text, cbor, or cborhex.")
	rootCmd.Flags().Bool("must-nickname", false, "Force enum (numeric) identifier form on output.")
	rootCmd.Flags().Bool("must-typed", false, "Reject wire values with no explicit type_code.")

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

func runTranscode(cmd *cobra.Command, args []string) error {
	inform := viper.GetString("inform")
	outform := viper.GetString("outform")
	mustNickname := viper.GetBool("must-nickname")
	mustTyped := viper.GetBool("must-typed")

	textOpts := textcodec.DefaultOptions()
	textOpts.NumericNames = mustNickname
	cborOpts := cborcodec.DefaultOptions()
	cborOpts.PreferNumericNames = mustNickname
	cborOpts.RequireTyped = mustTyped

	if inform == "cbor" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		return transcodeOne(data, inform, outform, textOpts, cborOpts)
	}

	lines, err := readLines(os.Stdin)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if line == "" {
			continue
		}
		var data []byte
		switch inform {
		case "text":
			data = []byte(line)
		case "cborhex":
			b, err := hex.DecodeString(line)
			if err != nil {
				return fmt.Errorf("invalid cborhex input: %w", err)
			}
			data = b
		default:
			return fmt.Errorf("unrecognized --inform %q", inform)
		}
		if err := transcodeOne(data, inform, outform, textOpts, cborOpts); err != nil {
			return err
		}
	}
	return nil
}

func transcodeOne(data []byte, inform, outform string, textOpts textcodec.Options, cborOpts cborcodec.Options) error {
	util.DbgPrint("transcode: inform=%s outform=%s", inform, outform)

	v, err := decodeInput(data, inform, textOpts, cborOpts)
	if err != nil {
		return err
	}
	return encodeOutput(v, outform, textOpts, cborOpts)
}
