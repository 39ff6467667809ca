package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/flightgate/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.UpstreamHost, convey.ShouldEqual, config.DefaultUpstreamHost)
			convey.So(cfg.UpstreamBaseURL, convey.ShouldEqual, "https://"+config.DefaultUpstreamHost)
			convey.So(cfg.Country, convey.ShouldEqual, "US")
			convey.So(cfg.Currency, convey.ShouldEqual, "USD")
			convey.So(cfg.Locale, convey.ShouldEqual, "en-US")
			convey.So(cfg.StrictErrorStatus, convey.ShouldBeFalse)
			convey.So(cfg.UpstreamTimeout(), convey.ShouldEqual, time.Duration(0))
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When the upstream base URL is relative", func() {
			cfg.UpstreamBaseURL = "/apiservices"
			err := cfg.Validate()

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "upstream_base_url")
				convey.So(err.Error(), convey.ShouldStartWith, "invalid gateway config: ")
			})
		})

		convey.Convey("When the upstream host is blank", func() {
			cfg.UpstreamHost = "  "
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When an API key is required but missing", func() {
			cfg.RequireAPIKey = true
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "api_key is required")

			cfg.APIKey = "secret"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the timeout is negative", func() {
			cfg.UpstreamTimeoutMS = -1
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the timeout is positive", func() {
			cfg.UpstreamTimeoutMS = 1500
			convey.So(cfg.UpstreamTimeout(), convey.ShouldEqual, 1500*time.Millisecond)
		})
	})
}
