package botapp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mlisovenko/vitrina/backend/internal/config"
	"github.com/mlisovenko/vitrina/backend/internal/domain/model"
	tginfra "github.com/mlisovenko/vitrina/backend/internal/infra/telegram"
	"github.com/mlisovenko/vitrina/backend/internal/jobs/metrics"
	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
	reportsvc "github.com/mlisovenko/vitrina/backend/internal/services/reports"
)

const queueEmptyMessage = "Очередь жалоб пуста."

// App is the moderation bot process. It serves pending reports to the
// moderator chat as cards with inline resolve/dismiss buttons and runs the
// daily metrics rollup loop in the background.
type App struct {
	cfg           config.Config
	logger        *zap.Logger
	postgres      *pgxpool.Pool
	bot           *tginfra.Bot
	reportService *reportsvc.Service
	rollupJob     *metrics.Job

	cursorMu     sync.Mutex
	cursorByChat map[int64]int64
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("init postgres for bot app: %w", err)
	}

	reportRepo := pgrepo.NewReportRepo(pool)
	eventRepo := pgrepo.NewEventRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	dailyMetricsRepo := pgrepo.NewDailyMetricsRepo(pool)
	reportService := reportsvc.NewService(reportRepo)

	rollupJob, err := metrics.NewRollupJob(eventRepo, profileRepo, dailyMetricsRepo, cfg.Analytics.Timezone, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init metrics rollup job: %w", err)
	}

	var bot *tginfra.Bot
	if strings.TrimSpace(cfg.Bot.Token) != "" {
		bot, err = tginfra.NewBot(cfg.Bot.Token)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init telegram bot: %w", err)
		}
	} else {
		logger.Warn("BOT_TOKEN is empty, moderation listener disabled")
	}

	return &App{
		cfg:           cfg,
		logger:        logger,
		postgres:      pool,
		bot:           bot,
		reportService: reportService,
		rollupJob:     rollupJob,
		cursorByChat:  make(map[int64]int64),
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot app started")

	errCh := make(chan error, 2)
	go func() {
		errCh <- a.rollupJob.Loop(ctx, a.cfg.Metrics.RollupInterval)
	}()

	if a.bot != nil {
		go func() {
			errCh <- a.bot.Listen(ctx, tginfra.Handlers{
				OnCommand:  a.handleCommand,
				OnCallback: a.handleCallback,
			})
		}()
	}

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("bot app stopped")
			return nil
		case err := <-errCh:
			if err == nil || errors.Is(err, context.Canceled) {
				continue
			}
			return err
		}
	}
}

func (a *App) handleCommand(ctx context.Context, update tginfra.CommandUpdate) error {
	if a.bot == nil {
		return nil
	}
	if !a.isModeratorChat(update.ChatID) {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(update.Command)) {
	case "pending", "queue":
		return a.sendNextReport(ctx, update.ChatID)
	case "stats":
		return a.sendStats(ctx, update.ChatID)
	default:
		return nil
	}
}

func (a *App) sendStats(ctx context.Context, chatID int64) error {
	counts, err := a.reportService.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count reports by status: %w", err)
	}

	lines := []string{"Reports by status:"}
	for _, status := range []string{"pending", "reviewed", "resolved", "dismissed"} {
		lines = append(lines, fmt.Sprintf("%s: %d", status, counts[status]))
	}
	return a.bot.SendText(ctx, chatID, strings.Join(lines, "\n"))
}

func (a *App) handleCallback(ctx context.Context, update tginfra.CallbackUpdate) error {
	if a.bot == nil {
		return nil
	}
	if !a.isModeratorChat(update.ChatID) {
		return a.bot.AnswerCallback(ctx, update.CallbackID, "Not allowed here")
	}

	parts := strings.Split(strings.TrimSpace(update.Data), ":")
	if len(parts) != 3 || parts[0] != "report" {
		return a.bot.AnswerCallback(ctx, update.CallbackID, "Unknown action")
	}

	reportID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || reportID <= 0 {
		return a.bot.AnswerCallback(ctx, update.CallbackID, "Invalid report id")
	}

	var next string
	switch parts[1] {
	case "resolve":
		next = "resolved"
	case "dismiss":
		next = "dismissed"
	default:
		return a.bot.AnswerCallback(ctx, update.CallbackID, "Unknown action")
	}

	if _, err := a.reportService.Transition(ctx, reportID, next); err != nil {
		a.logger.Warn("report transition failed",
			zap.Int64("report_id", reportID),
			zap.String("next", next),
			zap.Error(err),
		)
		return a.bot.AnswerCallback(ctx, update.CallbackID, "Transition failed")
	}

	if err := a.bot.AnswerCallback(ctx, update.CallbackID, "Done"); err != nil {
		return err
	}
	return a.bot.SendText(ctx, update.ChatID, fmt.Sprintf("Жалоба #%d: %s.", reportID, next))
}

// sendNextReport walks the pending queue oldest first, keeping a per-chat
// cursor so repeated /queue commands page forward instead of resending the
// same card.
func (a *App) sendNextReport(ctx context.Context, chatID int64) error {
	a.cursorMu.Lock()
	afterID := a.cursorByChat[chatID]
	a.cursorMu.Unlock()

	reports, err := a.reportService.Pending(ctx, afterID, 1)
	if err != nil {
		return fmt.Errorf("list pending reports: %w", err)
	}

	if len(reports) == 0 {
		a.cursorMu.Lock()
		delete(a.cursorByChat, chatID)
		a.cursorMu.Unlock()
		return a.bot.SendText(ctx, chatID, queueEmptyMessage)
	}

	report := reports[0]
	a.cursorMu.Lock()
	a.cursorByChat[chatID] = report.ID
	a.cursorMu.Unlock()

	return a.bot.SendReportCard(ctx, chatID, formatReportCard(report), report.ID)
}

func (a *App) isModeratorChat(chatID int64) bool {
	return a.cfg.Bot.ModeratorChat == 0 || a.cfg.Bot.ModeratorChat == chatID
}

func formatReportCard(report model.Report) string {
	lines := []string{
		fmt.Sprintf("Report #%d", report.ID),
		fmt.Sprintf("Reason: %s", report.Reason),
		fmt.Sprintf("Status: %s", report.Status),
		fmt.Sprintf("Created: %s", report.CreatedAt.UTC().Format("2006-01-02 15:04")),
	}

	if report.ProfileID != nil {
		lines = append(lines, fmt.Sprintf("Profile ID: %d", *report.ProfileID))
	} else {
		lines = append(lines, "Profile ID: -")
	}

	if strings.TrimSpace(report.ReporterName) != "" {
		lines = append(lines, fmt.Sprintf("Reporter: %s", report.ReporterName))
	}
	if strings.TrimSpace(report.ReporterEmail) != "" {
		lines = append(lines, fmt.Sprintf("Email: %s", report.ReporterEmail))
	}

	if strings.TrimSpace(report.Description) != "" {
		lines = append(lines, "", report.Description)
	}

	return strings.Join(lines, "\n")
}

func (a *App) Close() {
	if a.postgres != nil {
		a.postgres.Close()
	}
}
