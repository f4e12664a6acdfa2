package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stcase/Wingspan/internal/metrics"
	"github.com/stcase/Wingspan/internal/notifier"
)

// Checker runs one full turn-check sweep.
type Checker interface {
	CheckTurns(dryRun bool) error
}

// Poller drives the periodic turn-check loop. A failing sweep alerts the
// admin channel once and then stays quiet until a sweep succeeds again.
type Poller struct {
	checker      Checker
	notifier     notifier.Notifier
	metrics      metrics.Metrics
	interval     time.Duration
	inErrorState bool
}

// New creates a new Poller.
func New(checker Checker, notifier notifier.Notifier, metrics metrics.Metrics, interval time.Duration) *Poller {
	return &Poller{
		checker:  checker,
		notifier: notifier,
		metrics:  metrics,
		interval: interval,
	}
}

// Run sweeps immediately and then on every tick until the context is
// cancelled. Sweeps never overlap.
func (p *Poller) Run(ctx context.Context) {
	log.Info("Starting poller", "interval", p.interval)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.tick()
		select {
		case <-ctx.Done():
			log.Info("Poller stopped")
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) tick() {
	p.metrics.IncPollRuns()

	if err := p.sweep(); err != nil {
		log.Error("Turn check sweep failed", "error", err)
		if !p.inErrorState {
			if adminErr := p.notifier.SendAdmin("Exception while checking turns - check the logs", false); adminErr != nil {
				log.Error("Failed to send admin alert", "error", adminErr)
			}
		}
		p.inErrorState = true
		return
	}
	p.inErrorState = false
}

// sweep converts panics into errors so a bad tick never kills the loop.
func (p *Poller) sweep() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during sweep: %v", r)
		}
	}()
	return p.checker.CheckTurns(false)
}
