package config_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/crewcast/internal/config"
)

func TestLoad(t *testing.T) {
	Convey("Given the configuration loader", t, func() {
		ctx := context.Background()

		Convey("When nothing overrides the defaults", func() {
			cfg, err := config.Load(ctx)

			Convey("Then the default configuration is returned", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9090")
				So(cfg.TeamSize, ShouldEqual, 4)
				So(cfg.CandidatePoolSize, ShouldEqual, 12)
				So(cfg.GroupSizeMin, ShouldEqual, 3)
				So(cfg.GroupSizeMax, ShouldEqual, 5)
				So(cfg.NATSURL, ShouldBeEmpty)
			})
		})

		Convey("When environment variables override settings", func() {
			t.Setenv("CREWCAST_ADDR", ":7070")
			t.Setenv("CREWCAST_TEAM_SIZE", "3")
			cfg, err := config.Load(ctx)

			Convey("Then the overrides win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.TeamSize, ShouldEqual, 3)
				So(cfg.KPIWindowDays, ShouldEqual, 30) // untouched default
			})
		})

		Convey("When an override is invalid", func() {
			t.Setenv("CREWCAST_TEAM_SIZE", "0")
			_, err := config.Load(ctx)

			Convey("Then validation rejects the configuration", func() {
				So(err, ShouldWrap, config.ErrInvalidConfig)
			})
		})

		Convey("When the config file path does not exist", func() {
			t.Setenv("CREWCAST_CONFIG", "/nonexistent/crewcast.yaml")
			_, err := config.Load(ctx)

			Convey("Then loading fails with the load sentinel", func() {
				So(err, ShouldWrap, config.ErrLoadConfig)
			})
		})
	})
}
