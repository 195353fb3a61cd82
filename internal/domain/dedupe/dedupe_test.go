package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/reefscout/reefscout/internal/domain/dedupe"
	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFingerprint(t *testing.T) {
	Convey("Given two reports of the same robot", t, func() {
		a := model.Record{Event: "2025ONOSH", Level: model.LevelQualification, MatchNumber: 12, TeamNumber: 1114, Scouter: "Ana"}
		b := a
		b.Event = "2025onosh"
		b.Scouter = "ana"
		b.Comments = "different notes"

		Convey("Then case and non-identity fields do not change the fingerprint", func() {
			So(dedupe.Fingerprint(types.SourceLive, a), ShouldEqual, dedupe.Fingerprint(types.SourceLive, b))
			So(dedupe.Fingerprint(types.SourceLive, a), ShouldEqual, "live|2025onosh|qm|12|1114|ana")
		})

		Convey("Then source, scouter and match are part of the identity", func() {
			c := a
			c.Scouter = "Ben"
			d := a
			d.MatchNumber = 13
			So(dedupe.Fingerprint(types.SourcePrescout, a), ShouldNotEqual, dedupe.Fingerprint(types.SourceLive, a))
			So(dedupe.Fingerprint(types.SourceLive, c), ShouldNotEqual, dedupe.Fingerprint(types.SourceLive, a))
			So(dedupe.Fingerprint(types.SourceLive, d), ShouldNotEqual, dedupe.Fingerprint(types.SourceLive, a))
		})
	})
}

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When recording fingerprints", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the fingerprint is new", func() {
				seen := d.SeenAndRecord(ctx, "fp-1")

				Convey("Then it should return false and record it", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the fingerprint was already seen", func() {
				d.SeenAndRecord(ctx, "fp-1")
				seen := d.SeenAndRecord(ctx, "fp-1")

				Convey("Then it should return true", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When unrecording fingerprints", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "fp-1")
			d.SeenAndRecord(ctx, "fp-2")

			Convey("And the fingerprint exists", func() {
				d.Unrecord(ctx, "fp-1")

				Convey("Then it can be recorded again", func() {
					So(d.Size(), ShouldEqual, 1)
					So(d.SeenAndRecord(ctx, "fp-1"), ShouldBeFalse)
				})
			})

			Convey("And the fingerprint doesn't exist", func() {
				d.Unrecord(ctx, "missing")
				So(d.Size(), ShouldEqual, 2)
			})
		})

		Convey("When using bounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for i := 1; i <= 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("fp-%d", i))
			}

			Convey("Then the oldest fingerprint is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "fp-4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "fp-2"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "fp-1"), ShouldBeFalse)
			})
		})

		Convey("When using unbounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("fp-%d", i))
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 1000)
				So(d.SeenAndRecord(ctx, "fp-0"), ShouldBeTrue)
			})
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper shared by many goroutines", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When every goroutine submits the same fingerprints", func() {
			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				accepted int
			)
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						if !d.SeenAndRecord(ctx, fmt.Sprintf("fp-%d", i)) {
							mu.Lock()
							accepted++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each fingerprint is accepted exactly once", func() {
				So(accepted, ShouldEqual, 100)
				So(d.Size(), ShouldEqual, 100)
			})
		})
	})
}
