package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/peerzada/portfolio/internal/choreo"
	"github.com/peerzada/portfolio/internal/config"
	"github.com/peerzada/portfolio/internal/contact"
	"github.com/peerzada/portfolio/internal/logging"
	"github.com/peerzada/portfolio/internal/motion"
)

var (
	// Global flags
	envFile  string
	logLevel string

	appConfig *config.Config
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "Portfolio content server and choreography tools",
	Long:          RootLong,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		cfg, err := config.Load(files...)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		appConfig = cfg

		logger, err = logging.New(cfg.LogLevel, cfg.Development())
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play a visitor script against the headless page",
	Long:  SimulateLong,
	Args:  cobra.NoArgs,
	RunE:  runSimulate,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the compiled choreography as YAML",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

var mailtoCmd = &cobra.Command{
	Use:   "mailto [name] [email] [message]",
	Short: "Print the mailto link a contact submission produces",
	Args:  cobra.ExactArgs(3),
	RunE:  runMailto,
}

var (
	scriptFile   string
	realtime     bool
	projectCount int
	skillCount   int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides LOG_LEVEL")

	simulateCmd.Flags().StringVar(&scriptFile, "script", "", "visitor script YAML (default: built-in tour)")
	simulateCmd.Flags().BoolVar(&realtime, "realtime", false, "play on the wall clock instead of simulated frames")
	for _, c := range []*cobra.Command{simulateCmd, planCmd} {
		c.Flags().IntVar(&projectCount, "projects", 6, "number of project cards")
		c.Flags().IntVar(&skillCount, "skills", 6, "number of skill badges")
	}

	rootCmd.AddCommand(serveCmd, simulateCmd, planCmd, mailtoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if appConfig.GinMode != "" {
		gin.SetMode(appConfig.GinMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              appConfig.Addr(),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	if appConfig.ChoreographyFile != "" {
		g.Go(func() error {
			return config.Watch(gctx, appConfig.ChoreographyFile, config.DefaultDebounce, logger, srv.reloadChoreography)
		})
	}
	return g.Wait()
}

func loadScript() (*choreo.Script, error) {
	if scriptFile == "" {
		return choreo.DefaultTour()
	}
	data, err := os.ReadFile(scriptFile)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return choreo.ParseScript(data)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadChoreography(appConfig.ChoreographyFile)
	if err != nil {
		return err
	}
	script, err := loadScript()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	page, err := choreo.NewPage(cfg, choreo.PageOptions{
		Counts:  choreo.Counts{"projects": projectCount, "skills": skillCount},
		Logger:  logger,
		OnEvent: func(e choreo.Event) { printEvent(out, e) },
	})
	if err != nil {
		return err
	}
	defer page.Teardown()

	if !realtime {
		return page.Play(script)
	}

	runner := motion.NewRunner(page.Context().Loop(), script.FPS, logger)
	runner.Start()
	defer runner.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return page.PlayRealtime(ctx, script, runner)
}

func printEvent(w io.Writer, e choreo.Event) {
	line := fmt.Sprintf("%7.3fs  %-12s %-10s %s", e.Time, e.Section, e.Name, e.Kind)
	if e.Detail != "" {
		line += " " + e.Detail
	}
	fmt.Fprintln(w, line)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadChoreography(appConfig.ChoreographyFile)
	if err != nil {
		return err
	}
	plan, err := choreo.BuildPlan(cfg, choreo.Counts{"projects": projectCount, "skills": skillCount})
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(plan)
}

func runMailto(cmd *cobra.Command, args []string) error {
	link, err := contact.MailtoLink(appConfig.ContactEmail, contact.Message{
		Name:    args[0],
		Email:   args[1],
		Message: args[2],
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), link)
	return nil
}
