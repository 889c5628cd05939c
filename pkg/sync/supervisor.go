package syncer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/snaprag/snaprag/pkg/config"
	"github.com/snaprag/snaprag/pkg/log"
	"github.com/snaprag/snaprag/pkg/shardrpc"
	"github.com/snaprag/snaprag/pkg/storage"
)

// Supervisor owns one Poller per configured shard and starts/stops
// them together. Each shard is independent: no ordering is guaranteed
// across shards, only within one.
type Supervisor struct {
	pollers []*Poller
}

// NewSupervisor builds one Poller per cfg.ShardIDs sharing client and store.
func NewSupervisor(client shardrpc.ShardNodeClient, store storage.Store, cfg config.SyncConfig) *Supervisor {
	pollers := make([]*Poller, 0, len(cfg.ShardIDs))
	for _, shardID := range cfg.ShardIDs {
		pollers = append(pollers, NewPoller(shardID, client, store, cfg))
	}
	return &Supervisor{pollers: pollers}
}

// Run starts every poller and blocks until ctx is cancelled, then
// stops them all and waits for their in-flight flushes to finish.
func (s *Supervisor) Run(ctx context.Context) error {
	if len(s.pollers) == 0 {
		log.WithComponent("sync").Warn().Msg("no shards configured, supervisor is a no-op")
		<-ctx.Done()
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, p := range s.pollers {
		p := p
		p.Start(groupCtx)
	}

	group.Go(func() error {
		<-groupCtx.Done()
		for _, p := range s.pollers {
			p.Stop()
		}
		return nil
	})

	return group.Wait()
}

// Stop cooperatively stops every poller, for callers that don't drive
// Supervisor through Run's context (e.g. the CLI's sync stop command).
func (s *Supervisor) Stop() {
	for _, p := range s.pollers {
		p.Stop()
	}
}
