// Package audit keeps a local trail of every bid the gateway forwarded to the
// backend, accepted or not. The backend remains the source of truth for bids;
// the trail exists for support and abuse investigations.
package audit

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Entry struct {
	ID        string
	AuctionID string
	UserID    string
	Amount    float64
	Accepted  bool
	Reason    string
	At        time.Time
}

const (
	queueSize     = 1024
	batchSize     = 100
	flushInterval = 5 * time.Second
)

// Recorder drains a buffered channel into Postgres in batches. Record never
// blocks a bid submission: when the queue is full the entry is dropped and
// counted against the log.
type Recorder struct {
	db *sql.DB
	in chan Entry
}

func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db, in: make(chan Entry, queueSize)}
}

func (r *Recorder) Record(e Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	select {
	case r.in <- e:
	default:
		zap.L().Warn("audit.queue_full", zap.String("auction_id", e.AuctionID))
	}
}

// Run starts the drain loop. Entries are flushed when a batch fills, on the
// flush tick, and once more on shutdown.
func (r *Recorder) Run(ctx context.Context) {
	go func() {
		tk := time.NewTicker(flushInterval)
		defer tk.Stop()

		batch := make([]Entry, 0, batchSize)
		flush := func() {
			if len(batch) == 0 {
				return
			}
			if err := r.persist(batch); err != nil {
				zap.L().Error("audit.persist", zap.Error(err))
			}
			batch = batch[:0]
		}

		for {
			select {
			case <-ctx.Done():
				flush()
				return
			case e := <-r.in:
				batch = append(batch, e)
				if len(batch) >= batchSize {
					flush()
				}
			case <-tk.C:
				flush()
			}
		}
	}()
}

func (r *Recorder) persist(batch []Entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const ins = `INSERT INTO bid_audit (id, auction_id, user_id, amount, accepted, reason, at)
	             VALUES ($1, $2, $3, $4, $5, $6, $7)
	             ON CONFLICT DO NOTHING`
	for _, e := range batch {
		if _, err := tx.ExecContext(ctx, ins,
			e.ID, e.AuctionID, e.UserID, e.Amount, e.Accepted, e.Reason, e.At); err != nil {
			return err
		}
	}
	return tx.Commit()
}
