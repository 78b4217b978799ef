// Package cli provides the cobra command tree for the santa binary.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/santa-cli/internal/core/domain"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/santa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/santa-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// DrawServiceFactory builds a draw service for the effective settings.
// When notify is false the service must not need a mailer.
type DrawServiceFactory func(settings domain.AppSettings, notify bool) (driving.DrawService, error)

// Services holds everything the commands depend on.
type Services struct {
	Settings driving.SettingsService
	Rosters  driven.RosterLoader
	Draws    DrawServiceFactory

	// Close releases resources such as the draw database. May be nil.
	Close func() error
}

// Wiring builds Services for a configuration directory.
type Wiring func(configDir string) (*Services, error)

var (
	settingsService    driving.SettingsService
	rosterLoader       driven.RosterLoader
	drawServiceFactory DrawServiceFactory

	wiring       Wiring
	closeService func() error
)

var (
	verbose   bool
	quiet     bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "santa",
	Short: "Run a Secret Santa gift exchange",
	Long: `Santa draws Secret Santa assignments from a roster and emails each
giver their match. Spouses never draw each other, nobody draws themselves,
and the organizer receives the master list.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every candidate the matcher considers")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress warnings such as skipped notifications")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.santa)")
}

// SetWiring registers the function that builds services before a command runs.
func SetWiring(w Wiring) {
	wiring = w
}

// SetServices installs services directly, bypassing the wiring.
func SetServices(s *Services) {
	settingsService = s.Settings
	rosterLoader = s.Rosters
	drawServiceFactory = s.Draws
	closeService = s.Close
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and releases wired resources.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := teardown(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetQuiet(quiet)
	if wiring == nil {
		return nil
	}

	services, err := wiring(configDir)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

func teardown() error {
	if closeService == nil {
		return nil
	}
	err := closeService()
	closeService = nil
	return err
}

// buildDrawService resolves the factory for the given settings.
func buildDrawService(settings domain.AppSettings, notify bool) (driving.DrawService, error) {
	if drawServiceFactory == nil {
		return nil, errors.New("draw service not configured")
	}
	return drawServiceFactory(settings, notify)
}

// currentSettings returns stored settings, or defaults when no settings service is wired.
func currentSettings() (domain.AppSettings, error) {
	if settingsService == nil {
		return domain.DefaultAppSettings(), nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return domain.AppSettings{}, err
	}
	return *settings, nil
}

func loadRoster(path string) (*domain.Roster, error) {
	if rosterLoader == nil {
		return nil, errors.New("roster loader not configured")
	}
	return rosterLoader.Load(path)
}
