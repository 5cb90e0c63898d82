package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"LadderSentinel/internal/ladder"
	"LadderSentinel/internal/metrics"
	"LadderSentinel/internal/model"
	"LadderSentinel/internal/notifier"
)

// Notifier delivers a message to the configured chat.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Scheduler runs the ladder reminder and answers bot commands.
type Scheduler struct {
	Cron     *cron.Cron
	Notifier Notifier
	Params   ladder.Params
	// Reminder is the context recomputed on every reminder tick.
	Reminder model.TradeContext
	// Base supplies the fields a /ladder command omits.
	Base model.TradeContext
	Ctx  context.Context

	logger zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, n Notifier, params ladder.Params, base model.TradeContext) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Notifier: n,
		Params:   params,
		Base:     base,
		Ctx:      ctx,
		logger:   log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterReminder schedules a push of the plan for reminder at spec.
func (s *Scheduler) RegisterReminder(spec string, reminder model.TradeContext) error {
	s.Reminder = reminder
	if _, err := s.Cron.AddFunc(spec, s.reminderTask); err != nil {
		return fmt.Errorf("register reminder task: %w", err)
	}
	s.logger.Info().Str("cron", spec).Str("side", string(reminder.Side)).Msg("reminder registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunReminderNow executes the reminder task immediately.
func (s *Scheduler) RunReminderNow() {
	s.reminderTask()
}

func (s *Scheduler) reminderTask() {
	if s.Reminder.Side == "" {
		s.logger.Warn().Msg("no reminder ladder configured, skipping")
		return
	}
	s.logger.Info().Msg("running reminder task")
	plan, err := metrics.Compute("reminder", s.Reminder, s.Params)
	if err != nil {
		s.logger.Error().Err(err).Msg("reminder compute")
		s.trySend("⏰ <b>Ladder reminder failed</b>\n\n" + notifier.FormatError(err))
		return
	}
	s.trySend("⏰ <b>Ladder reminder</b>\n\n" + notifier.FormatPlan(plan))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(_ int64, text string) string {
	cmd, args := notifier.SplitCommand(text)
	switch cmd {
	case "/ladder":
		ctx, err := notifier.ParseLadderArgs(args, s.Base)
		if err != nil {
			return notifier.FormatError(err)
		}
		plan, err := metrics.Compute("telegram", ctx, s.Params)
		if err != nil {
			return notifier.FormatError(err)
		}
		return notifier.FormatPlan(plan)
	case "/reminder":
		if s.Reminder.Side == "" {
			return "No reminder ladder is configured."
		}
		plan, err := metrics.Compute("telegram", s.Reminder, s.Params)
		if err != nil {
			return notifier.FormatError(err)
		}
		return notifier.FormatPlan(plan)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.Notify(s.Ctx, text); err != nil {
		s.logger.Error().Err(err).Msg("send notification")
	}
}
