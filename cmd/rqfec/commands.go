package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
	log     *zap.SugaredLogger

	rootCmd = &cobra.Command{
		Use:           "rqfec",
		Short:         "RaptorQ forward-error-correction codec for files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if log, err = newLogger(verbose); err != nil {
				return err
			}
			if err = viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return loadConfig(cfgFile)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = log.Sync()
		},
	}

	encodeCmd = &cobra.Command{
		Use:   "encode",
		Short: "Encode a file into a directory of frame files",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runEncode(
				viper.GetString("input"),
				viper.GetString("output"),
				uint16(viper.GetUint("payload")),
				viper.GetInt("repair"),
			)
		},
	}

	decodeCmd = &cobra.Command{
		Use:   "decode",
		Short: "Decode a directory of frame files back into a file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDecode(
				viper.GetString("input"),
				viper.GetString("output"),
				viper.GetFloat64("drop"),
			)
		},
	}

	roundtripCmd = &cobra.Command{
		Use:   "roundtrip",
		Short: "Encode and decode a file in memory as a self-check",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRoundtrip(
				viper.GetString("input"),
				uint16(viper.GetUint("payload")),
				viper.GetFloat64("drop"),
			)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"yaml config file with defaults")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"debug logging")

	encodeCmd.Flags().StringP("input", "i", "", "file to encode")
	encodeCmd.Flags().StringP("output", "o", "", "frame output directory")
	encodeCmd.Flags().Uint("payload", 1400, "frame payload capacity in bytes")
	encodeCmd.Flags().Int("repair", 16, "repair symbols per source block")
	_ = encodeCmd.MarkFlagRequired("input")
	_ = encodeCmd.MarkFlagRequired("output")

	decodeCmd.Flags().StringP("input", "i", "", "frame directory")
	decodeCmd.Flags().StringP("output", "o", "", "decoded output file")
	decodeCmd.Flags().Float64("drop", 0,
		"fraction of frames to drop before decoding")
	_ = decodeCmd.MarkFlagRequired("input")
	_ = decodeCmd.MarkFlagRequired("output")

	roundtripCmd.Flags().StringP("input", "i", "", "file to round-trip")
	roundtripCmd.Flags().Uint("payload", 1400,
		"frame payload capacity in bytes")
	roundtripCmd.Flags().Float64("drop", 0.1,
		"fraction of source frames to drop")
	_ = roundtripCmd.MarkFlagRequired("input")

	for _, c := range []*cobra.Command{encodeCmd, decodeCmd, roundtripCmd} {
		rootCmd.AddCommand(c)
	}
}

func execute() error {
	err := rootCmd.Execute()
	if err != nil && log != nil {
		log.Errorw("command failed", "error", err)
	}
	return err
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
