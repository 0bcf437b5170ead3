package bus

import (
	"context"
	"testing"

	"github.com/yungbote/lims-backend/internal/realtime"
)

func TestMemoryBusForwardsAndRecords(t *testing.T) {
	t.Parallel()
	b := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []realtime.ProgressMessage
	if err := b.StartForwarder(ctx, func(m realtime.ProgressMessage) { got = append(got, m) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	msg := realtime.ProgressMessage{Event: realtime.EventImportProgress, Kind: "reagents", Chunk: 1, Committed: 10}
	if err := b.Publish(ctx, msg); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(got) != 1 || got[0].Committed != 10 {
		t.Fatalf("forwarded: %+v", got)
	}
	if rec := b.Published(); len(rec) != 1 || rec[0].Kind != "reagents" {
		t.Fatalf("recorded: %+v", rec)
	}

	_ = b.Close()
	if err := b.Publish(ctx, msg); err == nil {
		t.Fatalf("expected publish after close to fail")
	}
}

func TestRedisBusRequiresAddr(t *testing.T) {
	t.Parallel()
	if _, err := NewRedisBus(nil, "", ""); err == nil {
		t.Fatalf("expected error without logger")
	}
}
