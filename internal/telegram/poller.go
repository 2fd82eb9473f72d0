package telegram

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainerrors "botto/internal/domain/errors"
	"botto/internal/domain/models"
)

// Ingestor pulls, admits and enqueues one batch of updates.
type Ingestor interface {
	Run(ctx context.Context, session *models.Session) error
}

// Dispatcher drains the session queue accumulated by the ingestor.
type Dispatcher interface {
	Dispatch(ctx context.Context, session *models.Session) error
}

// Poller owns the single-threaded poll loop: every cycle ingests updates,
// dispatches the queue and sleeps. A failed cycle is logged and the loop
// carries on; the durable cursor guarantees nothing is lost.
type Poller struct {
	ingestor   Ingestor
	dispatcher Dispatcher
	session    *models.Session
	interval   time.Duration
	logger     *slog.Logger
	stopCh     chan struct{}
	doneCh     chan struct{}
}

func NewPoller(
	ingestor Ingestor,
	dispatcher Dispatcher,
	session *models.Session,
	interval time.Duration,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		ingestor:   ingestor,
		dispatcher: dispatcher,
		session:    session,
		interval:   interval,
		logger:     logger,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting poller", "interval", p.interval)

	defer close(p.doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.runCycle(ctx)

		select {
		case <-p.stopCh:
			p.logger.Info("Poller stopped")
			return
		case <-ctx.Done():
			p.logger.Info("Poller context cancelled")
			return
		case <-ticker.C:
		}
	}
}

// Stop signals the loop to exit and waits for the in-flight cycle to finish.
func (p *Poller) Stop() {
	close(p.stopCh)
	<-p.doneCh
}

func (p *Poller) runCycle(ctx context.Context) {
	if err := p.ingestor.Run(ctx, p.session); err != nil {
		if errors.Is(err, &domainerrors.ErrInvalidBotToken{}) {
			p.logger.Error("Bot token rejected upstream, check BOT_TOKEN", "error", err)
		} else {
			p.logger.Error("Failed to ingest updates", "error", err)
		}

		return
	}

	if err := p.dispatcher.Dispatch(ctx, p.session); err != nil {
		p.logger.Error("Failed to dispatch messages", "error", err)
	}
}
