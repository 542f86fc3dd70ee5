package workflow

import (
	"context"
	"sync"
	"time"

	"alfredoptarigan/ats-scanner/internal/client"
)

type effectKind int

const (
	kindList effectKind = iota
	kindPreview
	kindSettle
	kindScan
)

// Executor runs effects against the API. A new effect of a kind cancels the
// previous one of that kind, and Close cancels everything.
type Executor struct {
	api client.Client
	now func() time.Time

	mu      sync.Mutex
	base    context.Context
	stop    context.CancelFunc
	cancels map[effectKind]context.CancelFunc
}

func NewExecutor(ctx context.Context, api client.Client) *Executor {
	base, stop := context.WithCancel(ctx)
	return &Executor{
		api:     api,
		now:     time.Now,
		base:    base,
		stop:    stop,
		cancels: make(map[effectKind]context.CancelFunc),
	}
}

// Prepare turns an effect into a blocking call that yields the resulting
// event. It returns nil when there is nothing to run. The returned function
// yields nil if it was cancelled before producing an outcome.
func (x *Executor) Prepare(eff Effect) func() Event {
	switch e := eff.(type) {
	case FetchJDList:
		ctx := x.begin(kindList)
		return func() Event {
			jds, err := x.api.ListJDs(ctx)
			return JDListLoaded{JDs: jds, Err: err}
		}

	case FetchPreview:
		ctx := x.begin(kindPreview)
		return func() Event {
			content, err := x.api.GetJDContent(ctx, e.ID)
			if err != nil && ctx.Err() != nil {
				return nil
			}
			return PreviewLoaded{Token: e.Token, ID: e.ID, Content: content, Err: err, At: x.now()}
		}

	case CancelPreview:
		x.cancel(kindPreview)
		return nil

	case StartSettle:
		ctx := x.begin(kindSettle)
		return func() Event {
			timer := time.NewTimer(e.Delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return nil
			case <-timer.C:
				return SettleElapsed{Token: e.Token}
			}
		}

	case RunScan:
		ctx := x.begin(kindScan)
		return func() Event {
			res, err := x.api.BatchScan(ctx, e.JDID)
			return ScanCompleted{Token: e.Token, Result: res, Err: err}
		}
	}
	return nil
}

// Close cancels all in-flight effects.
func (x *Executor) Close() {
	x.stop()
}

func (x *Executor) begin(kind effectKind) context.Context {
	x.mu.Lock()
	defer x.mu.Unlock()
	if cancel, ok := x.cancels[kind]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(x.base)
	x.cancels[kind] = cancel
	return ctx
}

func (x *Executor) cancel(kind effectKind) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if cancel, ok := x.cancels[kind]; ok {
		cancel()
		delete(x.cancels, kind)
	}
}
