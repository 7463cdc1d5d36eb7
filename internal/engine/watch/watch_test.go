package watch_test

import (
	"context"
	"errors"
	"iter"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/plume/internal/core/ports/mocks"
	"go.trai.ch/plume/internal/engine/watch"
	"go.uber.org/mock/gomock"
)

const (
	root   = "/project"
	window = 200 * time.Millisecond
)

func table() domain.PathTable {
	return domain.DefaultPathTable(root, domain.DefaultSourceDir, domain.DefaultOutputDir)
}

func event(rel string) ports.WatchEvent {
	return ports.WatchEvent{Path: root + "/" + rel, Operation: ports.OpWrite}
}

type counter struct {
	mu   sync.Mutex
	runs map[domain.AssetKind]int
}

func (c *counter) run(_ context.Context, kind domain.AssetKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runs == nil {
		c.runs = map[domain.AssetKind]int{}
	}
	c.runs[kind]++
	return nil
}

func (c *counter) count(kind domain.AssetKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs[kind]
}

func TestDispatch_MatchesWatchGlobs(t *testing.T) {
	o := watch.New(table(), window, (&counter{}).run, nil)
	defer o.Stop()

	tests := []struct {
		rel  string
		want []domain.AssetKind
	}{
		{"src/index.html", []domain.AssetKind{domain.KindHTML}},
		{"src/partials/nav.html", []domain.AssetKind{domain.KindHTML}},
		{"src/assets/scss/base/_vars.scss", []domain.AssetKind{domain.KindCSS}},
		{"src/assets/js/lib/util.js", []domain.AssetKind{domain.KindJS}},
		{"src/assets/images/logo.png", []domain.AssetKind{domain.KindImages}},
		{"src/assets/fonts/body.woff2", []domain.AssetKind{domain.KindFonts}},
		{"src/assets/images/readme.txt", nil},
		{"dest/index.html", nil},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, o.Dispatch(event(tt.rel)))
		})
	}

	assert.Nil(t, o.Dispatch(ports.WatchEvent{Path: "relative/path.js"}))
}

func TestTrigger_CollapsesEventsWithinWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &counter{}
		o := watch.New(table(), window, c.run, nil)
		defer o.Stop()

		o.Dispatch(event("src/assets/scss/main.scss"))
		assert.Equal(t, watch.Pending, o.State(domain.KindCSS))

		time.Sleep(window / 2)
		o.Dispatch(event("src/assets/scss/main.scss"))

		time.Sleep(window - time.Millisecond)
		synctest.Wait()
		assert.Zero(t, c.count(domain.KindCSS))

		time.Sleep(2 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 1, c.count(domain.KindCSS))
		assert.Equal(t, watch.Idle, o.State(domain.KindCSS))
		assert.Zero(t, c.count(domain.KindJS))
	})
}

func TestTrigger_KindsAreIndependent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &counter{}
		o := watch.New(table(), window, c.run, nil)
		defer o.Stop()

		o.Notify(domain.KindJS)
		o.Notify(domain.KindHTML)
		time.Sleep(window + time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 1, c.count(domain.KindJS))
		assert.Equal(t, 1, c.count(domain.KindHTML))
		assert.Zero(t, c.count(domain.KindCSS))
	})
}

func TestTrigger_ChangeWhileRunningSchedulesRerun(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		release := make(chan struct{})
		var runs, active, maxActive atomic.Int32

		run := func(context.Context, domain.AssetKind) error {
			runs.Add(1)
			n := active.Add(1)
			if n > maxActive.Load() {
				maxActive.Store(n)
			}
			<-release
			active.Add(-1)
			return nil
		}

		o := watch.New(table(), window, run, nil)
		defer o.Stop()

		o.Notify(domain.KindCSS)
		time.Sleep(window + time.Millisecond)
		synctest.Wait()
		require.Equal(t, watch.Running, o.State(domain.KindCSS))

		o.Notify(domain.KindCSS)
		o.Notify(domain.KindCSS)
		assert.Equal(t, watch.Running, o.State(domain.KindCSS))

		release <- struct{}{}
		synctest.Wait()
		assert.Equal(t, watch.Pending, o.State(domain.KindCSS))
		assert.Equal(t, int32(1), runs.Load())

		time.Sleep(window + time.Millisecond)
		synctest.Wait()
		assert.Equal(t, int32(2), runs.Load())

		release <- struct{}{}
		synctest.Wait()
		assert.Equal(t, watch.Idle, o.State(domain.KindCSS))
		assert.Equal(t, int32(1), maxActive.Load())
	})
}

func TestStop_CancelsPendingRuns(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &counter{}
		o := watch.New(table(), window, c.run, nil)

		o.Notify(domain.KindFonts)
		o.Stop()
		time.Sleep(2 * window)
		synctest.Wait()

		assert.Zero(t, c.count(domain.KindFonts))
		assert.Equal(t, watch.Idle, o.State(domain.KindFonts))

		o.Notify(domain.KindFonts)
		assert.Equal(t, watch.Idle, o.State(domain.KindFonts))
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", watch.Idle.String())
	assert.Equal(t, "pending", watch.Pending.String())
	assert.Equal(t, "running", watch.Running.String())
	assert.Equal(t, "unknown", watch.State(9).String())
}

func seq(ch <-chan ports.WatchEvent) iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range ch {
			if !yield(ev) {
				return
			}
		}
	}
}

func TestRun_DispatchesUntilCancelled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		w := mocks.NewMockWatcher(ctrl)
		log := mocks.NewMockLogger(ctrl)

		ch := make(chan ports.WatchEvent)
		w.EXPECT().Start(gomock.Any(), root).Return(nil)
		w.EXPECT().Events().Return(seq(ch))
		w.EXPECT().Stop().Return(nil)

		taskErr := errors.New("js task failed")
		log.EXPECT().Error(taskErr)

		run := func(context.Context, domain.AssetKind) error { return taskErr }
		o := watch.New(table(), window, run, log)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- o.Run(ctx, w) }()

		ch <- event("src/assets/js/app.js")
		time.Sleep(window + time.Millisecond)
		synctest.Wait()

		cancel()
		close(ch)
		require.NoError(t, <-done)
	})
}

func TestRun_WatcherFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)

	ch := make(chan ports.WatchEvent)
	close(ch)
	w.EXPECT().Start(gomock.Any(), root).Return(nil)
	w.EXPECT().Events().Return(seq(ch))
	overflow := errors.New("inotify queue overflow")
	w.EXPECT().Err().Return(overflow)
	w.EXPECT().Stop().Return(nil)

	err := watch.New(table(), window, (&counter{}).run, nil).Run(context.Background(), w)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrWatchFailed.Error())
	assert.ErrorIs(t, err, overflow)
}

func TestRun_StreamClosedWithoutError(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)

	ch := make(chan ports.WatchEvent)
	close(ch)
	w.EXPECT().Start(gomock.Any(), root).Return(nil)
	w.EXPECT().Events().Return(seq(ch))
	w.EXPECT().Err().Return(nil)
	w.EXPECT().Stop().Return(nil)

	err := watch.New(table(), window, (&counter{}).run, nil).Run(context.Background(), w)
	assert.ErrorContains(t, err, domain.ErrWatchFailed.Error())
}

func TestRun_StartFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockWatcher(ctrl)
	gomock.InOrder(
		w.EXPECT().Start(gomock.Any(), root).Return(errors.New("too many open files")),
		w.EXPECT().Stop().Return(nil),
	)

	err := watch.New(table(), window, (&counter{}).run, nil).Run(context.Background(), w)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrWatchFailed.Error())
}
