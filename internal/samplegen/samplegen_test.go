package samplegen_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/smtgolf/internal/domain/ingest"
	"github.com/okian/smtgolf/internal/domain/model"
	"github.com/okian/smtgolf/internal/domain/summary"
	"github.com/okian/smtgolf/internal/domain/timing"
	"github.com/okian/smtgolf/internal/samplegen"
	. "github.com/smartystreets/goconvey/convey"
)

func render(t *testing.T, cfg samplegen.Config) string {
	t.Helper()
	var buf bytes.Buffer
	if err := samplegen.WriteCSV(&buf, samplegen.New(cfg).Generate()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return buf.String()
}

func TestFormatClock(t *testing.T) {
	Convey("Given a time of day", t, func() {
		d := 13*time.Hour + 4*time.Minute + 5*time.Second + 67*time.Millisecond

		Convey("Then it renders as a tracker timestamp", func() {
			So(samplegen.FormatClock(d), ShouldEqual, "13:04:05.067")
			So(ingest.ParseTimestamp(samplegen.FormatClock(d)), ShouldEqual, d.Milliseconds())
		})
	})
}

func TestGenerator(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		cfg := samplegen.Config{Seed: 42, Golfers: 3, Holes: 2, MaxStrokes: 3}
		out := render(t, cfg)

		Convey("Then the same seed gives the same export", func() {
			So(render(t, cfg), ShouldEqual, out)
		})

		Convey("Then every shot survives the pipeline", func() {
			read, err := ingest.ReadRows(strings.NewReader(out))
			So(err, ShouldBeNil)
			So(read.Issues, ShouldBeEmpty)

			res := timing.NewAggregator().Aggregate(read.Rows)
			So(res.Discarded, ShouldEqual, 0)
			So(len(res.Shots), ShouldBeBetweenOrEqual, 3*2, 3*2*3)

			stats := summary.Summarize(res.Shots)
			So(stats, ShouldHaveLength, 3)
			for _, s := range res.Shots {
				So(*s.TimeToBallSpeed, ShouldEqual, int64(0))
				So(*s.TimeToTotal, ShouldBeBetweenOrEqual, int64(1100), int64(1800))
			}
		})
	})

	Convey("Given a scaled latency", t, func() {
		base := render(t, samplegen.Config{Seed: 7, Golfers: 2, Holes: 3})
		slow := render(t, samplegen.Config{Seed: 7, Golfers: 2, Holes: 3, LatencyScale: 2})

		Convey("Then positions match and total distance arrives later", func() {
			a := shotsOf(base)
			b := shotsOf(slow)
			So(len(b), ShouldEqual, len(a))
			for i := range a {
				So(b[i].Position(), ShouldResemble, a[i].Position())
				So(*b[i].TimeToTotal, ShouldBeGreaterThan, *a[i].TimeToTotal)
			}
		})
	})

	Convey("Given incomplete and noisy shots", t, func() {
		out := render(t, samplegen.Config{Seed: 3, Golfers: 4, Holes: 9, IncompleteRate: 1, NoiseRate: 0.5})

		Convey("Then every shot is discarded and noise is reported", func() {
			read, err := ingest.ReadRows(strings.NewReader(out))
			So(err, ShouldBeNil)
			So(read.Issues, ShouldNotBeEmpty)
			res := timing.NewAggregator().Aggregate(read.Rows)
			So(res.Shots, ShouldBeEmpty)
			So(res.Discarded, ShouldBeGreaterThan, 0)
		})
	})
}

func shotsOf(csv string) []model.Shot {
	read, _ := ingest.ReadRows(strings.NewReader(csv))
	return timing.NewAggregator().Aggregate(read.Rows).Shots
}

func TestClient(t *testing.T) {
	Convey("Given a fake service", t, func() {
		var gotMatch, gotFile string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/health":
				w.WriteHeader(http.StatusOK)
			case "/api/upload":
				f, _, err := r.FormFile("file")
				if err != nil {
					http.Error(w, "no file", http.StatusBadRequest)
					return
				}
				data, _ := io.ReadAll(f)
				gotMatch, gotFile = r.FormValue("matchNumber"), string(data)
				if gotMatch == "bad" {
					http.Error(w, `{"code":"bad_request"}`, http.StatusBadRequest)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, `{"success":true,"matchNumber":"M9","completedShots":2}`)
			}
		}))
		defer srv.Close()
		client := samplegen.NewClient(srv.URL+"/", time.Second)
		ctx := context.Background()

		Convey("When checking health", func() {
			So(client.CheckHealth(ctx), ShouldBeNil)
		})

		Convey("When uploading", func() {
			res, err := client.Upload(ctx, "M9", "synthetic", []byte("10:00:00.000,Ana,1,1,150,,,,,255\n"))

			Convey("Then the form reaches the service", func() {
				So(err, ShouldBeNil)
				So(gotMatch, ShouldEqual, "M9")
				So(gotFile, ShouldStartWith, "10:00:00.000,Ana")
				So(res.Success, ShouldBeTrue)
				So(res.CompletedShots, ShouldEqual, 2)
			})
		})

		Convey("When the service rejects the upload", func() {
			_, err := client.Upload(ctx, "bad", "", []byte("x"))
			So(errors.Is(err, samplegen.ErrUnexpectedStatus), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "400")
		})
	})
}
