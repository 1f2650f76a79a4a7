package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"b2gmatch/internal/logger"
	"b2gmatch/internal/model"
	"b2gmatch/internal/repository"
	"b2gmatch/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newScoreCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an opportunities export against a contractor profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := getConfig(v)
			if err != nil {
				return fmt.Errorf("reading config: %w", err)
			}
			return runScore(cmd, config)
		},
	}

	cmd.Flags().StringP("profile", "p", "", "contractor profile file (YAML or JSON)")
	cmd.Flags().StringP("opportunities", "o", "", "opportunities file (JSON array)")
	cmd.Flags().Int("min-score", service.DefaultMinScore, "minimum fitting score to report")
	cmd.Flags().Int("max-results", service.DefaultMaxResults, "maximum number of matches to report")
	cmd.Flags().Int("pool-size", service.DefaultPoolSize, "maximum number of open opportunities to score")
	cmd.Flags().String("now", "", "reference time in RFC3339 used to drop expired opportunities (default is current time)")

	for _, name := range []string{"profile", "opportunities", "min-score", "max-results", "pool-size", "now"} {
		_ = v.BindPFlag(name, cmd.Flags().Lookup(name))
	}

	return cmd
}

func runScore(cmd *cobra.Command, config *Config) error {
	level := "warn"
	if config.Debug {
		level = "debug"
	}
	format := "console"
	if config.JSON {
		format = "json"
	}
	log, err := logger.NewWithOutput(format, level, "stderr")
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	if strings.TrimSpace(config.Profile) == "" {
		return errors.New("a contractor profile is required (--profile)")
	}
	if strings.TrimSpace(config.Opportunities) == "" {
		return errors.New("an opportunities file is required (--opportunities)")
	}

	if config.MinScore < 0 || config.MinScore > 100 {
		return fmt.Errorf("--min-score must be between 0 and 100, got %d", config.MinScore)
	}

	now := time.Now()
	if config.Now != "" {
		now, err = time.Parse(time.RFC3339, config.Now)
		if err != nil {
			return fmt.Errorf("parsing --now: %w", err)
		}
	}

	profile, err := loadProfile(config.Profile)
	if err != nil {
		return err
	}

	source, err := repository.NewFileRepository(config.Opportunities, log)
	if err != nil {
		return err
	}

	log.Debug("scoring opportunities",
		zap.String("profile", config.Profile),
		zap.String("opportunities", config.Opportunities),
		zap.Time("now", now),
	)

	engine := service.NewEngine(config.MinScore, config.MaxResults)
	svc := service.NewMatchService(source, engine, config.PoolSize, log).
		WithClock(func() time.Time { return now })

	response, err := svc.Match(cmd.Context(), profile)
	if err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding matches: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	return err
}

// loadProfile reads a contractor profile. JSON input is accepted since
// YAML is a superset of it.
func loadProfile(path string) (*model.ContractorProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file '%s': %w", path, err)
	}

	var profile model.ContractorProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile file '%s': %w", path, err)
	}
	return &profile, nil
}
