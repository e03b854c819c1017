package cleanup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/GoSim-25-26J-441/project-records/internal/logging"
	"github.com/GoSim-25-26J-441/project-records/internal/storage/blob"
)

// RefSource lists the photo references still held by project rows.
type RefSource interface {
	PhotoRefs(ctx context.Context) ([]string, error)
}

// Sweeper deletes blobs that no project references anymore.
type Sweeper struct {
	refs  RefSource
	blobs blob.Store
	grace time.Duration
	now   func() time.Time
}

// NewSweeper builds a Sweeper. Blobs younger than grace are left alone so an
// upload whose row is not inserted yet is never swept.
func NewSweeper(refs RefSource, blobs blob.Store, grace time.Duration) *Sweeper {
	return &Sweeper{refs: refs, blobs: blobs, grace: grace, now: time.Now}
}

// Sweep runs one pass and returns how many blobs were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	objects, err := s.blobs.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep: %w", err)
	}

	refs, err := s.refs.PhotoRefs(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep: %w", err)
	}
	live := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		live[r] = struct{}{}
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, o := range objects {
		if _, ok := live[o.Ref]; ok {
			continue
		}
		if o.ModTime.After(cutoff) {
			continue
		}
		if err := s.blobs.Delete(ctx, o.Ref); err != nil {
			logging.New(ctx).Warnf("blob.sweep", "delete failed ref=%s error=%v", o.Ref, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Scheduler runs the sweeper on a cron schedule.
type Scheduler struct {
	sweeper *Sweeper
	c       *cron.Cron
	timeout time.Duration
}

func NewScheduler(sweeper *Sweeper) *Scheduler {
	return &Scheduler{
		sweeper: sweeper,
		c:       cron.New(cron.WithSeconds()),
		timeout: 5 * time.Minute,
	}
}

// Start registers the sweep under schedule (with a seconds field) and starts
// the cron goroutine.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.c.AddFunc(schedule, s.run)
	if err != nil {
		return fmt.Errorf("failed to create sweep job: %w", err)
	}

	log.Printf("Blob sweeper started (schedule %q)", schedule)
	s.c.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	ctx = logging.WithRequestID(ctx, "cron")

	n, err := s.sweeper.Sweep(ctx)
	if err != nil {
		logging.New(ctx).Errorf("blob.sweep", "error=%v", err)
		return
	}
	logging.New(ctx).Infof("blob.sweep", "removed=%d", n)
}
