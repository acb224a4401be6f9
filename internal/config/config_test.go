package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/charcache/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.DBPath, convey.ShouldEqual, "rick_and_morty.db")
			convey.So(cfg.SourceURL, convey.ShouldEqual, "https://rickandmortyapi.com/api/character")
			convey.So(cfg.PageDelay(), convey.ShouldEqual, 200*time.Millisecond)
			convey.So(cfg.HTTPTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with bad values", t, func() {
		cases := map[string]func(c *config.Config){
			"addr must not be empty":             func(c *config.Config) { c.Addr = " " },
			"db_path must not be empty":          func(c *config.Config) { c.DBPath = "" },
			"source_url must not be empty":       func(c *config.Config) { c.SourceURL = "" },
			"page_delay_ms must not be negative": func(c *config.Config) { c.PageDelayMS = -1 },
			"http_timeout_ms must be positive":   func(c *config.Config) { c.HTTPTimeoutMS = 0 },
			"absolute http(s) URL":               func(c *config.Config) { c.SourceURL = "ftp://example.com/x" },
		}

		for want, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, want)
		}
	})

	convey.Convey("Given a zero page delay", t, func() {
		cfg := config.New()
		cfg.PageDelayMS = 0

		convey.Convey("Then it should be accepted", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
