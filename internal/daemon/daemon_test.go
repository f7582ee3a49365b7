package daemon

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/meteobar/meteobar/internal/weather"
	"go.uber.org/zap"
)

type fakeSource struct {
	forecastCalls int32
	refreshCalls  int32
	err           error
	title         string
	noCurrent     bool
	block         chan struct{}
}

func (f *fakeSource) Forecast(ctx context.Context) (*weather.Forecast, error) {
	atomic.AddInt32(&f.forecastCalls, 1)
	return f.result()
}

func (f *fakeSource) Refresh(ctx context.Context) (*weather.Forecast, error) {
	atomic.AddInt32(&f.refreshCalls, 1)
	return f.result()
}

func (f *fakeSource) result() (*weather.Forecast, error) {
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &weather.Forecast{Location: weather.Location{Name: "Here"}}, nil
}

func (f *fakeSource) CurrentTitle(*weather.Forecast) (string, bool) {
	if f.noCurrent {
		return "", false
	}
	return f.title, true
}

type titleRecorder struct {
	mu     sync.Mutex
	titles []string
}

func (r *titleRecorder) update(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
}

func (r *titleRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.titles...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestRefreshUpdatesTitle(t *testing.T) {
	src := &fakeSource{title: "7°"}
	rec := &titleRecorder{}
	d := NewDaemon(src, rec.update, time.Hour, 0, zap.NewNop())

	if err := d.refresh(context.Background(), false); err != nil {
		t.Fatalf("refresh() error = %v", err)
	}

	if got := rec.all(); len(got) != 1 || got[0] != "7°" {
		t.Errorf("titles = %v, want [7°]", got)
	}
	if s := d.Status(); s.LastTitle != "7°" || s.LastError != "" || s.LastRun.IsZero() {
		t.Errorf("Status() = %+v", s)
	}
}

func TestRefreshErrorKeepsTitle(t *testing.T) {
	src := &fakeSource{err: errors.New("offline")}
	rec := &titleRecorder{}
	d := NewDaemon(src, rec.update, time.Hour, 0, zap.NewNop())

	if err := d.refresh(context.Background(), false); err == nil {
		t.Fatal("refresh() expected error")
	}

	if got := rec.all(); len(got) != 0 {
		t.Errorf("titles = %v, want none", got)
	}
	if s := d.Status(); s.LastError == "" || s.Running {
		t.Errorf("Status() = %+v, want error recorded and not running", s)
	}
}

func TestRefreshWithoutCurrentHour(t *testing.T) {
	src := &fakeSource{noCurrent: true}
	rec := &titleRecorder{}
	d := NewDaemon(src, rec.update, time.Hour, 0, zap.NewNop())

	if err := d.refresh(context.Background(), false); err == nil {
		t.Fatal("refresh() expected error")
	}
	if got := rec.all(); len(got) != 0 {
		t.Errorf("titles = %v, want none", got)
	}
}

func TestRefreshForceUsesRefresh(t *testing.T) {
	src := &fakeSource{title: "1°"}
	d := NewDaemon(src, func(string) {}, time.Hour, 0, zap.NewNop())

	d.refresh(context.Background(), true)
	d.refresh(context.Background(), false)

	if got := atomic.LoadInt32(&src.refreshCalls); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}
	if got := atomic.LoadInt32(&src.forecastCalls); got != 1 {
		t.Errorf("forecast calls = %d, want 1", got)
	}
}

func TestRefreshSkipsWhileRunning(t *testing.T) {
	src := &fakeSource{title: "3°", block: make(chan struct{})}
	rec := &titleRecorder{}
	d := NewDaemon(src, rec.update, time.Hour, 0, zap.NewNop())

	done := make(chan struct{})
	go func() {
		d.refresh(context.Background(), false)
		close(done)
	}()

	waitFor(t, func() bool { return d.Status().Running })

	if err := d.refresh(context.Background(), false); err != nil {
		t.Errorf("overlapping refresh() error = %v, want nil skip", err)
	}

	close(src.block)
	<-done

	if got := atomic.LoadInt32(&src.forecastCalls); got != 1 {
		t.Errorf("forecast calls = %d, want 1", got)
	}
	if got := rec.all(); len(got) != 1 {
		t.Errorf("titles = %v, want one update", got)
	}
}

func TestRunRefreshesImmediatelyAndStops(t *testing.T) {
	src := &fakeSource{title: "5°"}
	rec := &titleRecorder{}
	d := NewDaemon(src, rec.update, time.Hour, 10, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(stopped)
	}()

	waitFor(t, func() bool { return len(rec.all()) == 1 })

	if next := d.Status().NextRun; next.IsZero() {
		t.Error("NextRun not scheduled")
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunTicks(t *testing.T) {
	src := &fakeSource{title: "5°"}
	rec := &titleRecorder{}
	d := NewDaemon(src, rec.update, 10*time.Millisecond, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	waitFor(t, func() bool { return len(rec.all()) >= 3 })
}

func TestRefreshNow(t *testing.T) {
	src := &fakeSource{title: "9°"}
	rec := &titleRecorder{}
	d := NewDaemon(src, rec.update, time.Hour, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	waitFor(t, func() bool { return len(rec.all()) == 1 })

	d.RefreshNow()

	waitFor(t, func() bool { return atomic.LoadInt32(&src.refreshCalls) == 1 })
	waitFor(t, func() bool { return len(rec.all()) == 2 })
}

func TestRefreshNowCoalesces(t *testing.T) {
	d := NewDaemon(&fakeSource{}, func(string) {}, time.Hour, 0, zap.NewNop())

	// Not running, so the trigger buffer fills once and the rest drop
	d.RefreshNow()
	d.RefreshNow()
	d.RefreshNow()

	if got := len(d.trigger); got != 1 {
		t.Errorf("pending triggers = %d, want 1", got)
	}
}
