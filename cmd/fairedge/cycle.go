package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/XavierBriggs/fairedge/internal/assembler"
	"github.com/XavierBriggs/fairedge/internal/broadcaster"
	"github.com/XavierBriggs/fairedge/internal/entitlement"
	"github.com/XavierBriggs/fairedge/internal/evscore"
	"github.com/XavierBriggs/fairedge/internal/hotcache"
	"github.com/XavierBriggs/fairedge/internal/models"
	"github.com/XavierBriggs/fairedge/internal/oddsclient"
	"github.com/XavierBriggs/fairedge/internal/persistence"
)

// stdLogger adapts the standard logger to internal/assembler's Logger
// interface.
type stdLogger struct{}

func (stdLogger) Printf(format string, args ...any) { log.Printf(format, args...) }

// pipeline holds every collaborator one fetch-process-cache-persist cycle
// needs, per spec §5's ordering guarantee: Fetch -> Fair-Odds -> EV ->
// Assemble -> Cache-swap -> (notify SSE subscribers + spawn persistence).
type pipeline struct {
	odds        *oddsclient.Client
	cache       *hotcache.Cache
	writer      *persistence.Writer
	hub         *broadcaster.Hub
	fees        evscore.ExchangeFees
	sportKeys   []string
	marketKinds []string
}

var entitlementTiers = []entitlement.Tier{
	entitlement.TierAnonymous,
	entitlement.TierBasic,
	entitlement.TierPremium,
	entitlement.TierAdmin,
}

func (p *pipeline) runCycle(ctx context.Context, cycleID string) error {
	snapshotAt := time.Now().UTC()

	snapshot, err := p.odds.FetchSnapshot(ctx, p.sportKeys, p.marketKinds)
	if err != nil {
		return fmt.Errorf("cycle %s: fetch: %w", cycleID, err)
	}

	groups := assembler.BuildMarketGroups(snapshot)

	opportunities, err := assembler.Assemble(groups, p.fees, snapshotAt, stdLogger{})
	if err != nil {
		return fmt.Errorf("cycle %s: assemble: %w", cycleID, err)
	}

	byTier := make(map[string][]models.Opportunity, len(entitlementTiers)+1)
	byTier["all"] = opportunities
	for _, tier := range entitlementTiers {
		byTier[string(tier)] = entitlement.Filter(tier, opportunities)
	}

	if err := p.cache.SwapTiers(ctx, byTier, snapshotAt); err != nil {
		return fmt.Errorf("cycle %s: cache swap: %w", cycleID, err)
	}

	p.hub.Publish(broadcaster.RefreshEvent{CycleID: cycleID, TSUnix: snapshotAt.Unix()})

	events := eventsByDisplayName(snapshot)
	go p.writer.WriteBatch(context.Background(), events, opportunities, snapshotAt)

	log.Printf("cycle %s: %d opportunities assembled from %d markets", cycleID, len(opportunities), len(groups))
	return nil
}

func eventsByDisplayName(snapshot oddsclient.Snapshot) map[string]models.Event {
	out := make(map[string]models.Event, len(snapshot.Events))
	for _, se := range snapshot.Events {
		out[se.Event.DisplayName()] = se.Event
	}
	return out
}
