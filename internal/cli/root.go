package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "matchctl"

// Config holds the settings of the score command
type Config struct {
	Profile       string `mapstructure:"profile"`
	Opportunities string `mapstructure:"opportunities"`
	MinScore      int    `mapstructure:"min-score"`
	MaxResults    int    `mapstructure:"max-results"`
	PoolSize      int    `mapstructure:"pool-size"`
	Now           string `mapstructure:"now"`
	Debug         bool   `mapstructure:"debug"`
	JSON          bool   `mapstructure:"json"`
}

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// NewRootCommand builds the matchctl command tree.
// Every call gets its own viper instance.
func NewRootCommand(build BuildInfo) *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           app,
		Short:         "matchctl ranks government contract opportunities for a contractor profile",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is matchctl.yaml in current directory)")
	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("json", root.PersistentFlags().Lookup("json"))

	root.AddCommand(newScoreCommand(v))
	root.AddCommand(newVersionCommand(build))

	return root
}

func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(strings.ToUpper(app))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		return v.ReadInConfig()
	}

	v.AddConfigPath(".")
	v.SetConfigName(app)
	v.SetConfigType("yaml")

	// The config file is optional when flags carry everything
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

func getConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
