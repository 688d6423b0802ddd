package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

// run executes shotctl against the SQLite file db and returns its stdout.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	argv := append([]string{"shotctl", "--db-dsn", db}, args...)
	err := newApp(&out, &errOut).Run(argv)
	return out.String(), err
}

func TestShotctl(t *testing.T) {
	convey.Convey("Given a fresh working directory", t, func() {
		dir := t.TempDir()
		t.Chdir(dir)
		db := filepath.Join(dir, "shots.db")
		baseline := filepath.Join(dir, "baseline.csv")
		slower := filepath.Join(dir, "slower.csv")

		_, err := run(t, db, "generate", "--seed", "11", "--golfers", "2", "--holes", "3", "-o", baseline)
		convey.So(err, convey.ShouldBeNil)
		_, err = run(t, db, "generate", "--seed", "11", "--golfers", "2", "--holes", "3", "--latency-scale", "1.5", "-o", slower)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When initializing the database", func() {
			out, err := run(t, db, "init-db")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "schema ready (sqlite)")
		})

		convey.Convey("When analyzing a generated export", func() {
			out, err := run(t, db, "analyze", baseline)

			convey.Convey("Then a golfer table is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "discarded 0")
				convey.So(out, convey.ShouldContainSubstring, "GOLFER")
			})
		})

		convey.Convey("When both exports are uploaded", func() {
			_, err := run(t, db, "upload", "--match", "A", "--description", "baseline", baseline)
			convey.So(err, convey.ShouldBeNil)
			_, err = run(t, db, "upload", "--match", "B", slower)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then they are listed", func() {
				out, err := run(t, db, "matches")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "baseline")
			})

			convey.Convey("And B compares slower", func() {
				out, err := run(t, db, "compare", "A", "B")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "A vs B: B slower")
			})

			convey.Convey("And a comparison workbook is written", func() {
				out, err := run(t, db, "export", "--against", "B", "A")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "A-vs-B.xlsx")
				_, statErr := os.Stat(filepath.Join(dir, "A-vs-B.xlsx"))
				convey.So(statErr, convey.ShouldBeNil)
			})

			convey.Convey("And deleting one leaves the other", func() {
				_, err := run(t, db, "delete", "A")
				convey.So(err, convey.ShouldBeNil)
				out, _ := run(t, db, "matches", "--json")
				convey.So(out, convey.ShouldContainSubstring, `"match_number": "B"`)
				convey.So(out, convey.ShouldNotContainSubstring, `"match_number": "A"`)
			})
		})

		convey.Convey("When comparing an unknown match", func() {
			_, err := run(t, db, "compare", "A", "nope")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When analyze is missing its file", func() {
			_, err := run(t, db, "analyze")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
