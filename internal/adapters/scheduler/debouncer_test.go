package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/contestboard/internal/adapters/scheduler"
	"github.com/okian/contestboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func TestDebouncer(t *testing.T) {
	convey.Convey("Given a debouncer with short delays", t, func() {
		db := scheduler.NewDebouncer(
			scheduler.WithDelay(scheduler.ChannelContests, 20*time.Millisecond),
			scheduler.WithDelay(scheduler.ChannelTeams, 40*time.Millisecond),
		)
		defer func() { _ = db.Shutdown(context.Background()) }()
		ctx := context.Background()

		convey.Convey("When a burst of schedules arrives", func() {
			var calls int32
			var last int32
			for i := int32(1); i <= 5; i++ {
				v := i
				err := db.Schedule(ctx, scheduler.ChannelContests, func(context.Context) {
					atomic.AddInt32(&calls, 1)
					atomic.StoreInt32(&last, v)
				})
				convey.So(err, convey.ShouldBeNil)
				time.Sleep(2 * time.Millisecond)
			}

			convey.Convey("Then only the latest action runs once", func() {
				convey.So(db.Pending(scheduler.ChannelContests), convey.ShouldBeTrue)
				time.Sleep(100 * time.Millisecond)
				convey.So(atomic.LoadInt32(&calls), convey.ShouldEqual, 1)
				convey.So(atomic.LoadInt32(&last), convey.ShouldEqual, 5)
				convey.So(db.Pending(scheduler.ChannelContests), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When two channels are scheduled", func() {
			var mu sync.Mutex
			var order []string
			record := func(name string) func(context.Context) {
				return func(context.Context) {
					mu.Lock()
					order = append(order, name)
					mu.Unlock()
				}
			}
			convey.So(db.Schedule(ctx, scheduler.ChannelTeams, record("teams")), convey.ShouldBeNil)
			convey.So(db.Schedule(ctx, scheduler.ChannelContests, record("contests")), convey.ShouldBeNil)

			convey.Convey("Then each fires independently after its own delay", func() {
				time.Sleep(150 * time.Millisecond)
				mu.Lock()
				defer mu.Unlock()
				convey.So(order, convey.ShouldResemble, []string{"contests", "teams"})
			})
		})

		convey.Convey("When a pending action is cancelled", func() {
			var calls int32
			convey.So(db.Schedule(ctx, scheduler.ChannelContests, func(context.Context) { atomic.AddInt32(&calls, 1) }), convey.ShouldBeNil)
			convey.So(db.Cancel(scheduler.ChannelContests), convey.ShouldBeTrue)
			convey.So(db.Cancel(scheduler.ChannelContests), convey.ShouldBeFalse)

			convey.Convey("Then it never runs", func() {
				time.Sleep(60 * time.Millisecond)
				convey.So(atomic.LoadInt32(&calls), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the context is done before firing", func() {
			var calls int32
			cctx, cancel := context.WithCancel(ctx)
			convey.So(db.Schedule(cctx, scheduler.ChannelContests, func(context.Context) { atomic.AddInt32(&calls, 1) }), convey.ShouldBeNil)
			cancel()

			convey.Convey("Then the action is skipped", func() {
				time.Sleep(60 * time.Millisecond)
				convey.So(atomic.LoadInt32(&calls), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When arguments are invalid", func() {
			convey.So(errors.Is(db.Schedule(ctx, "", func(context.Context) {}), scheduler.ErrEmptyChannel), convey.ShouldBeTrue)
			convey.So(errors.Is(db.Schedule(ctx, "x", nil), scheduler.ErrNilAction), convey.ShouldBeTrue)
		})

		convey.Convey("When asking for delays", func() {
			convey.So(db.Delay(scheduler.ChannelTeams), convey.ShouldEqual, 40*time.Millisecond)
			convey.So(db.Delay("other"), convey.ShouldEqual, scheduler.DefaultContestDelay)
		})
	})

	convey.Convey("Given a shut down debouncer", t, func() {
		db := scheduler.NewDebouncer()
		var calls int32
		convey.So(db.Schedule(context.Background(), scheduler.ChannelTeams, func(context.Context) { atomic.AddInt32(&calls, 1) }), convey.ShouldBeNil)
		convey.So(db.Shutdown(context.Background()), convey.ShouldBeNil)

		convey.Convey("Then pending actions are dropped and new ones rejected", func() {
			err := db.Schedule(context.Background(), scheduler.ChannelTeams, func(context.Context) {})
			convey.So(errors.Is(err, scheduler.ErrClosed), convey.ShouldBeTrue)
			time.Sleep(scheduler.DefaultTeamDelay + 50*time.Millisecond)
			convey.So(atomic.LoadInt32(&calls), convey.ShouldEqual, 0)
		})
	})

	convey.Convey("Given default delays", t, func() {
		db := scheduler.NewDebouncer()
		convey.So(db.Delay(scheduler.ChannelContests), convey.ShouldEqual, 500*time.Millisecond)
		convey.So(db.Delay(scheduler.ChannelTeams), convey.ShouldEqual, 800*time.Millisecond)
	})
}
