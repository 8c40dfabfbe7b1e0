// Package cli wires configuration and subsystems into cobra commands.
package cli

import (
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bankid-mock",
	Short: "Mock identity provider for relying-party development",
	Long: `bankid-mock serves the relying-party auth/collect protocol and lets an
operator resolve pending orders by hand from the admin API.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.toml or $HOME/.bankid-mock/config.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log every request and change signal")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.bankid-mock")
	}

	viper.SetEnvPrefix("BANKID_MOCK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			log.Printf("reading config: %v", err)
		}
		return
	}
	log.Printf("using config %s", viper.ConfigFileUsed())
}
