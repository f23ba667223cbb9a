package alert

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler fires the alert batch on a cron cadence.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher *Dispatcher
	spec       string
}

func NewScheduler(dispatcher *Dispatcher, spec string) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		dispatcher: dispatcher,
		spec:       spec,
	}
}

// Start registers the batch job and begins ticking. The cron library runs
// each firing in its own goroutine, so a slow batch never blocks the next.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		log.Println("[scheduler] starting alert batch")
		s.dispatcher.RunDue(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[scheduler] alert batch scheduled: %q", s.spec)
	return nil
}

// Stop halts scheduling and waits for any in-flight firing to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	log.Println("[scheduler] stopped")
}
