package videograder

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gradi-client/internal/apperrors"
	"gradi-client/internal/models"
	"gradi-client/shared/api"
	"gradi-client/shared/config"
	"gradi-client/shared/logging"
	"gradi-client/shared/monitoring"
	"gradi-client/shared/orchestrator"
	"gradi-client/shared/presenter"
	"gradi-client/shared/scheduler"
	"gradi-client/shared/youtube"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type commands struct {
	out    io.Writer
	errOut io.Writer
	cfg    *config.Config
}

// NewApp builds the gradi command line. Command output goes to out; logs
// and progress go to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	c := &commands{out: out, errOut: errOut}

	return &cli.App{
		Name:      "gradi",
		Usage:     "grade YouTube lectures with the Gradi analysis service",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML config file",
				Value:   "config.yaml",
				EnvVars: []string{"CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override logging.level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "analyze one video and print the rating",
				ArgsUsage: "<youtube-url>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print the raw result as JSON"},
					&cli.BoolFlag{Name: "metadata", Usage: "look up title and channel on YouTube"},
				},
				Action: c.analyzeAction,
			},
			{
				Name:  "history",
				Usage: "list recent analyses stored by the service",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "number of analyses to list (default from config)"},
					&cli.BoolFlag{Name: "json", Usage: "print records as JSON"},
				},
				Action: c.historyAction,
			},
			{
				Name:   "health",
				Usage:  "check that the analysis service is up",
				Action: c.healthAction,
			},
			{
				Name:  "watch",
				Usage: "grade the watchlist on the configured schedule",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "once", Usage: "run a single pass and exit"},
				},
				Action: c.watchAction,
			},
		},
	}
}

// loadConfig reads the file named by --config and sets up logging.
func (c *commands) loadConfig(ctx *cli.Context) error {
	cfg, err := config.LoadFile(ctx.String("config"))
	if err != nil {
		return err
	}
	if level := ctx.String("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if err := logging.SetupWriter(cfg.Logging, c.errOut); err != nil {
		return apperrors.NewConfigError("invalid log level %q: %v", cfg.Logging.Level, err)
	}
	c.cfg = cfg
	return nil
}

func (c *commands) client() *api.Client {
	return api.NewClient(c.cfg.Backend.URL, c.cfg.Backend.Timeout(), c.cfg.Backend.HistoryLimit)
}

type analyzeOutput struct {
	Video        *models.Video          `json:"video,omitempty"`
	OverallScore float64                `json:"overall_score"`
	Result       *models.AnalysisResult `json:"result"`
}

func (c *commands) analyzeAction(ctx *cli.Context) error {
	videoURL := ctx.Args().First()
	if videoURL == "" {
		return apperrors.ErrURLRequired
	}
	if err := c.loadConfig(ctx); err != nil {
		return err
	}

	s := newSpinner(spinner.WithWriter(c.errOut))
	o := orchestrator.New(c.client(),
		orchestrator.WithTimeout(c.cfg.Backend.Timeout()),
		orchestrator.WithListener(func(snap orchestrator.Snapshot) {
			if snap.State == orchestrator.Requesting {
				s.UpdateSuffix(" " + snap.Stage)
			}
		}),
	)

	s.Start()
	o.Submit(ctx.Context, videoURL)
	s.Stop()

	snap := o.Snapshot()
	if snap.State != orchestrator.Succeeded {
		return snap.Err
	}

	var video *models.Video
	if ctx.Bool("metadata") {
		video = c.lookupVideo(ctx, videoURL)
	}

	if ctx.Bool("json") {
		score, _ := presenter.OverallScore(snap.Result)
		return writeJSON(c.out, analyzeOutput{Video: video, OverallScore: score, Result: snap.Result})
	}

	view, err := presenter.Build(snap.Result)
	if err != nil {
		return err
	}
	if err := presenter.RenderVideo(c.out, video); err != nil {
		return err
	}
	return presenter.Render(c.out, view)
}

// lookupVideo is best effort; a failed lookup only drops the header.
func (c *commands) lookupVideo(ctx *cli.Context, videoURL string) *models.Video {
	if !c.cfg.YouTube.Enabled() {
		log.Warn("YouTube credentials are not configured, skipping metadata")
		return nil
	}
	id, ok := youtube.ExtractVideoID(videoURL)
	if !ok {
		log.Warnf("No video ID in %s, skipping metadata", videoURL)
		return nil
	}
	client, err := youtube.NewClient(ctx.Context, c.cfg.YouTube)
	if err != nil {
		log.Warnf("YouTube client unavailable: %v", err)
		return nil
	}
	video, err := client.GetVideo(ctx.Context, id)
	if err != nil {
		log.Warnf("Metadata lookup failed: %v", err)
		return nil
	}
	return video
}

func (c *commands) historyAction(ctx *cli.Context) error {
	if err := c.loadConfig(ctx); err != nil {
		return err
	}
	records, err := c.client().RecentAnalyses(ctx.Context, ctx.Int("limit"))
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return writeJSON(c.out, records)
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(c.out, "No analyses yet.")
		return err
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		score, label := "-", ""
		if overall, err := presenter.OverallScore(r.AnalysisResult); err == nil {
			score = presenter.FormatScore(overall)
			label = presenter.ScoreLabel(overall).OverallLabel()
		}
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.YouTubeURL,
			score,
			label,
			fmt.Sprintf("%.1fs", r.AnalysisDuration),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("DATE", "URL", "SCORE", "RATING", "TOOK").
		Rows(rows...)
	_, err = fmt.Fprintln(c.out, t.Render())
	return err
}

func (c *commands) healthAction(ctx *cli.Context) error {
	if err := c.loadConfig(ctx); err != nil {
		return err
	}
	status, err := c.client().Health(ctx.Context)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Backend %s: %s\n", c.cfg.Backend.URL, status.Status)
	names := make([]string, 0, len(status.Services))
	for name := range status.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(c.out, "  %-10s %s\n", name, status.Services[name])
	}
	return nil
}

func (c *commands) watchAction(ctx *cli.Context) error {
	if err := c.loadConfig(ctx); err != nil {
		return err
	}
	if err := c.cfg.ValidateWatch(); err != nil {
		return err
	}

	monitor := monitoring.NewMonitor()
	agent := NewGraderAgent(c.cfg, monitor)
	s := scheduler.New(c.cfg, agent, monitor)

	if ctx.Bool("once") {
		if err := agent.Initialize(ctx.Context); err != nil {
			return fmt.Errorf("failed to initialize agent: %w", err)
		}
		return s.RunOnce(ctx.Context)
	}

	log.Infof("Watching %d urls", len(c.cfg.Watch.URLs))
	return s.Start(ctx.Context)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
