// Package persistence is the durable store: it deduplicates opportunities
// into stable Bet identities and appends time-stamped Offer rows. Writes
// run asynchronously after the hot cache is updated so reads never wait on
// the database (spec §4.6).
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/XavierBriggs/fairedge/internal/models"
)

// maxConcurrentChunks bounds how many BatchSize-sized chunks write in
// parallel, mirroring the bounded-fan-out shape of an errgroup-driven
// worker pool rather than opening one goroutine per chunk unconditionally.
const maxConcurrentChunks = 4

// BatchSize is the number of opportunities in each chunk WriteBatch hands to
// one worker. Within a chunk every opportunity is written in its own
// transaction; a chunk is not one transaction.
const BatchSize = 200

// Writer persists Bet/Offer rows to Postgres.
type Writer struct {
	db *sql.DB
}

// New opens a connection pool against dsn, sized the way the teacher's
// api-gateway/internal/db/holocron.go configures HolocronPostgres.
func New(dsn string) (*Writer, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("persistence: open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Writer{db: db}, nil
}

// Ping verifies connectivity, used by the /health endpoint.
func (w *Writer) Ping(ctx context.Context) error {
	return w.db.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (w *Writer) Close() error {
	return w.db.Close()
}

// WriteBatch persists one cycle's opportunities in batches of BatchSize.
// Each opportunity fails independently — a persistence error for one never
// aborts the batch or the calling cycle, per spec §4.6/§7's "Persistence"
// error policy: log, retry once, drop the batch (the failing item, not the
// whole run).
func (w *Writer) WriteBatch(ctx context.Context, events map[string]models.Event, opportunities []models.Opportunity, observedAt time.Time) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChunks)

	for start := 0; start < len(opportunities); start += BatchSize {
		end := start + BatchSize
		if end > len(opportunities) {
			end = len(opportunities)
		}
		chunk := opportunities[start:end]
		g.Go(func() error {
			w.writeChunk(ctx, events, chunk, observedAt)
			return nil
		})
	}

	_ = g.Wait()
}

func (w *Writer) writeChunk(ctx context.Context, events map[string]models.Event, chunk []models.Opportunity, observedAt time.Time) {
	for _, opp := range chunk {
		event, ok := events[opp.Event]
		if !ok {
			log.Printf("persistence: no event found for opportunity %s, skipping", opp.ID)
			continue
		}

		if err := w.writeOne(ctx, event, opp, observedAt); err != nil {
			if err := w.writeOne(ctx, event, opp, observedAt); err != nil {
				log.Printf("persistence: dropping opportunity %s after retry: %v", opp.ID, err)
			}
		}
	}
}

func (w *Writer) writeOne(ctx context.Context, event models.Event, opp models.Opportunity, observedAt time.Time) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	eventID, err := upsertEvent(ctx, tx, event)
	if err != nil {
		return fmt.Errorf("upsert event: %w", err)
	}

	betKey := parseOpportunityKey(opp.ID)
	betID, err := upsertBet(ctx, tx, eventID, betKey, event.Sha(), event.CommenceUTC)
	if err != nil {
		return fmt.Errorf("upsert bet: %w", err)
	}

	for _, offer := range opp.AllOffers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bet_offers (bet_id, book_key, american_odds, observed_at)
			VALUES ($1, $2, $3, $4)
		`, betID, offer.BookKey, offer.AmericanOdds, observedAt); err != nil {
			return fmt.Errorf("insert offer: %w", err)
		}
	}

	return tx.Commit()
}

func upsertEvent(ctx context.Context, tx *sql.Tx, event models.Event) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO events (event_sha, sport_key, league_key, home, away, commence_utc)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_sha) DO UPDATE SET commence_utc = EXCLUDED.commence_utc
		RETURNING id
	`, event.Sha(), event.SportKey, event.LeagueKey, event.Home, event.Away, event.CommenceUTC).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func upsertBet(ctx context.Context, tx *sql.Tx, eventID int64, key models.BetKey, eventSha string, commenceUTC int64) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO bets (event_id, event_sha, market_kind, outcome_key, parameter, player, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (event_sha, market_kind, outcome_key, COALESCE(parameter, 'NaN'::double precision), COALESCE(player, '')) DO UPDATE SET
			last_seen_at = NOW(),
			event_id = EXCLUDED.event_id
		RETURNING id
	`, eventID, eventSha, key.MarketKind, key.OutcomeKey, key.Parameter, key.Player).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// parseOpportunityKey recovers the BetKey from an Opportunity's id, which is
// stamped as key.String() by internal/assembler.
func parseOpportunityKey(id string) models.BetKey {
	parts := strings.SplitN(id, "|", 5)
	key := models.BetKey{}
	if len(parts) != 5 {
		return key
	}

	key.EventSha = parts[0]
	key.MarketKind = models.MarketKind(parts[1])
	key.OutcomeKey = parts[2]
	if parts[3] != "-" {
		if v, err := strconv.ParseFloat(parts[3], 64); err == nil {
			key.Parameter = &v
		}
	}
	if parts[4] != "-" {
		player := parts[4]
		key.Player = &player
	}
	return key
}
