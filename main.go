package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/Seebrasse345/linkedin-auto-apply/browser"
	"github.com/Seebrasse345/linkedin-auto-apply/config"
	"github.com/Seebrasse345/linkedin-auto-apply/models"
	"github.com/Seebrasse345/linkedin-auto-apply/services"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := "config.yml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	utils.InitLogger(cfg.Runtime.LogLevel, cfg.Runtime.LogFormat)
	defer utils.Log.Sync()

	store, err := services.NewAnswerStore(cfg.Runtime.AnswersFile)
	if err != nil {
		return fmt.Errorf("open answer store: %w", err)
	}
	utils.Log.Infof("Loaded %d stored answers from %s", store.Len(), cfg.Runtime.AnswersFile)

	ledger, err := services.NewLedgerService(cfg.Runtime.DataDir)
	if err != nil {
		return fmt.Errorf("open ledgers: %w", err)
	}

	session, err := browser.LaunchAuthenticated(cfg)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer session.Close()

	saver := browser.NewSessionService(
		session.Context,
		session.StatePath,
		time.Duration(cfg.Runtime.SessionSaveIntervalSeconds)*time.Second,
	)
	saver.Start()
	defer saver.Stop()

	drv := browser.NewPageDriver(session.Page)
	oracle := services.NewAnswerOracle(cfg)
	letters := services.NewCoverLetterService(cfg.Runtime.CVPath)
	shots := services.NewScreenshotService(drv, cfg.Runtime.DataDir)

	wizard := services.NewApplicationWizard(
		drv, store, oracle, letters, ledger,
		services.TextDefaults{
			YearsExperience: cfg.Defaults.YearsExperience,
			NoticePeriod:    cfg.Defaults.NoticePeriod,
			Salary:          cfg.Defaults.Salary,
		},
		services.DefaultWizardConfig(),
	).WithSession(saver).WithDebugCapture(shots)

	search := services.NewJobSearchService(drv)

	applied := 0
	for _, name := range sortedProfileNames(cfg.Profiles) {
		if applied >= cfg.Runtime.MaxApplications {
			break
		}
		profile := cfg.Profiles[name]

		searchURL, err := services.ConstructSearchURL(name, profile)
		if err != nil {
			utils.Log.Warnf("Skipping profile %q: %v", name, err)
			continue
		}

		utils.Log.Infof("Running search profile %q", name)
		if _, err := session.Page.Goto(searchURL); err != nil {
			utils.Log.Warnf("Could not open search page for profile %q: %v", name, err)
			continue
		}
		drv.WaitForTimeout(3000)
		acceptCookieBanner(drv, cfg)

		remaining := cfg.Runtime.MaxApplications - applied
		jobs := search.CollectJobCards(remaining)
		utils.Log.Infof("Profile %q yielded %d candidate jobs", name, len(jobs))

		for _, job := range jobs {
			if applied >= cfg.Runtime.MaxApplications {
				break
			}
			if ledger.AlreadyRecorded(job.ID) {
				utils.Log.Infof("Skipping already-attempted job %s", job.ID)
				continue
			}

			search.OpenJobDetail(job)
			outcome := wizard.StartApplication(job)
			if outcome.Status == models.StatusSuccess {
				applied++
			}
			drv.WaitForTimeout(2000)
		}
	}

	utils.Log.Infof("Run complete: %d applications submitted", applied)
	return nil
}

// sortedProfileNames fixes the profile iteration order; map iteration
// would vary between runs.
func sortedProfileNames(profiles map[string]config.SearchProfile) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func acceptCookieBanner(drv browser.Driver, cfg *config.Config) {
	selector := cfg.Runtime.AcceptCookiesSelector
	if selector == "" {
		return
	}
	banner := drv.Locate(selector)
	if banner.Count() == 0 {
		return
	}
	if err := banner.First().Click(2000); err != nil {
		utils.Log.Debugf("Cookie banner click failed: %v", err)
	}
}
