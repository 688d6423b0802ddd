package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/okian/smtgolf/internal/adapters/repository"
	service "github.com/okian/smtgolf/internal/app"
	"github.com/okian/smtgolf/internal/domain/model"
	"github.com/okian/smtgolf/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const (
	// Ana's shot reports total distance 1.2s after the first row; Bo never
	// reports total distance.
	baselineCSV = "10:00:00.000,Ana,1,1,150,,,,,\n" +
		"10:00:00.500,Ana,1,1,150,12,30,-2,240,\n" +
		"10:00:01.200,Ana,1,1,150,12,30,-2,240,255\n" +
		"10:00:02.000,Bo,1,1,140,N/A,,,,\n"

	// Same shot, total distance arrives 0.2s sooner.
	fasterCSV = "11:00:00.000,Ana,1,1,151,,,,,\n" +
		"11:00:01.000,Ana,1,1,151,11,29,-1,238,250\n"
)

func newService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	store, err := repository.Open(context.Background(), repository.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	svc := service.New(append([]service.Option{service.WithStore(store)}, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service configured with a database", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithDatabase(repository.DriverSQLite, ":memory:"))
		defer svc.Stop()

		Convey("When used before Start", func() {
			_, err := svc.ListMatches(ctx)

			Convey("Then persisted operations are refused", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When started", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then stats report the opened store", func() {
				stats := svc.GetStats(ctx)
				So(stats["started"], ShouldEqual, true)
				So(stats["driver"], ShouldEqual, repository.DriverSQLite)
				So(stats["matches"], ShouldEqual, 0)
			})

			Convey("And stopped", func() {
				svc.Stop()
				So(svc.GetStats(ctx)["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given an unsupported driver", t, func() {
		svc := service.New(service.WithDatabase("oracle", "x"))

		Convey("Then Start fails", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, repository.ErrUnsupportedDriver), ShouldBeTrue)
		})
	})
}

func TestService_Analyze(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When analyzing an export", func() {
			res, err := svc.Analyze(ctx, strings.NewReader(baselineCSV))

			Convey("Then the pipeline summary is returned", func() {
				So(err, ShouldBeNil)
				So(res.Success, ShouldBeTrue)
				So(res.TotalRows, ShouldEqual, 4)
				So(res.CompletedShots, ShouldEqual, 1)
				So(res.DiscardedShots, ShouldEqual, 1)
				So(res.Warnings, ShouldEqual, 1)
				So(res.Issues[0].Column, ShouldEqual, "launchAngle")
				So(res.Golfers, ShouldResemble, []string{"Ana"})
				So(*res.Stats[0].AvgTimeToTotal, ShouldAlmostEqual, 1.2)
			})
		})

		Convey("When no file is given", func() {
			_, err := svc.Analyze(ctx, nil)
			So(errors.Is(err, service.ErrMissingFile), ShouldBeTrue)
			So(service.IsClientError(err), ShouldBeTrue)
		})

		Convey("When the body is empty", func() {
			res, err := svc.Analyze(ctx, strings.NewReader(""))
			So(err, ShouldBeNil)
			So(res.CompletedShots, ShouldEqual, 0)
			So(res.Stats, ShouldBeEmpty)
		})
	})

	Convey("Given a service with sequential gaps", t, func() {
		svc := service.New(service.WithSequentialGaps(true))

		Convey("Then analyzed shots carry gaps", func() {
			res, err := svc.Analyze(context.Background(), strings.NewReader(baselineCSV))
			So(err, ShouldBeNil)
			gaps := res.Stats[0].Shots[0].Gaps
			So(gaps, ShouldNotBeNil)
			So(*gaps.GapToTotal, ShouldEqual, int64(700))
		})
	})
}

func TestService_Upload(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newService(t)

		Convey("When a match is uploaded", func() {
			res, err := svc.Upload(ctx, " M1 ", "range day", strings.NewReader(baselineCSV))

			Convey("Then it is stored under the trimmed number", func() {
				So(err, ShouldBeNil)
				So(res.MatchNumber, ShouldEqual, "M1")
				So(res.CompletedShots, ShouldEqual, 1)

				m, err := svc.GetMatch(ctx, "M1")
				So(err, ShouldBeNil)
				So(m.Description, ShouldEqual, "range day")
				So(m.Stats, ShouldHaveLength, 1)
				So(*m.Stats[0].MaxTotalDistance, ShouldEqual, 255.0)
			})

			Convey("And uploaded again", func() {
				_, err := svc.Upload(ctx, "M1", "", strings.NewReader(fasterCSV))
				So(err, ShouldBeNil)

				Convey("Then the shots are replaced and the description kept", func() {
					m, err := svc.GetMatch(ctx, "M1")
					So(err, ShouldBeNil)
					So(m.Description, ShouldEqual, "range day")
					So(*m.Stats[0].MaxTotalDistance, ShouldEqual, 250.0)

					list, err := svc.ListMatches(ctx)
					So(err, ShouldBeNil)
					So(list, ShouldHaveLength, 1)
				})
			})
		})

		Convey("When the match number is blank", func() {
			_, err := svc.Upload(ctx, "  ", "", strings.NewReader(baselineCSV))
			So(errors.Is(err, service.ErrMissingMatchNumber), ShouldBeTrue)
		})

		Convey("When the file is missing", func() {
			_, err := svc.Upload(ctx, "M1", "", nil)
			So(errors.Is(err, service.ErrMissingFile), ShouldBeTrue)
		})

		Convey("When the body cannot be read", func() {
			_, err := svc.Upload(ctx, "M1", "", iotest.ErrReader(errors.New("connection reset")))

			Convey("Then nothing is stored", func() {
				So(errors.Is(err, service.ErrBadRequest), ShouldBeTrue)
				list, _ := svc.ListMatches(ctx)
				So(list, ShouldBeEmpty)
			})
		})
	})
}

func TestService_Matches(t *testing.T) {
	Convey("Given two stored matches", t, func() {
		ctx := context.Background()
		svc := newService(t)
		_, err := svc.Upload(ctx, "M1", "", strings.NewReader(baselineCSV))
		So(err, ShouldBeNil)
		_, err = svc.Upload(ctx, "M2", "", strings.NewReader(fasterCSV))
		So(err, ShouldBeNil)

		Convey("When comparing them", func() {
			res, err := svc.Compare(ctx, "M1", "M2")

			Convey("Then B is faster on total distance", func() {
				So(err, ShouldBeNil)
				So(res.MatchA.MatchNumber, ShouldEqual, "M1")
				So(res.MatchB.MatchNumber, ShouldEqual, "M2")
				So(res.Comparison.MatchedPositions, ShouldEqual, 1)
				So(*res.Comparison.MeanDelta.TotalDistance, ShouldAlmostEqual, -0.2)
				So(res.Comparison.Verdict, ShouldEqual, model.VerdictFaster)
			})
		})

		Convey("When comparing with an unknown match", func() {
			_, err := svc.Compare(ctx, "M1", "nope")
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})

		Convey("When a match number is missing", func() {
			_, err := svc.Compare(ctx, "M1", "")
			So(errors.Is(err, service.ErrMissingMatchNumber), ShouldBeTrue)
		})

		Convey("When exporting a match", func() {
			var buf bytes.Buffer
			So(svc.ExportMatch(ctx, "M1", &buf), ShouldBeNil)

			Convey("Then the workbook opens", func() {
				book, err := excelize.OpenReader(&buf)
				So(err, ShouldBeNil)
				defer book.Close()
				So(book.GetSheetList(), ShouldContain, "Summary")
			})
		})

		Convey("When exporting the comparison", func() {
			var buf bytes.Buffer
			So(svc.ExportComparison(ctx, "M1", "M2", &buf), ShouldBeNil)
			So(buf.Len(), ShouldBeGreaterThan, 0)
		})

		Convey("When deleting a match", func() {
			So(svc.DeleteMatch(ctx, "M1"), ShouldBeNil)

			Convey("Then it is gone", func() {
				_, err := svc.GetMatch(ctx, "M1")
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
				So(errors.Is(svc.DeleteMatch(ctx, "M1"), service.ErrNotFound), ShouldBeTrue)
				So(svc.GetStats(ctx)["matches"], ShouldEqual, 1)
			})
		})
	})
}
