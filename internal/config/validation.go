package config

import (
	"fmt"
	"net/url"
	"time"

	bnerrors "git.home.luguber.info/inful/buildnative/internal/errors"
)

// Validate checks a configuration with defaults applied.
func Validate(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	return v.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateBuild(); err != nil {
		return err
	}
	if err := cv.validateNotify(); err != nil {
		return err
	}
	return cv.validateWatch()
}

func (cv *configurationValidator) validateBuild() error {
	b := cv.config.Build
	if b.Tool == "" {
		return bnerrors.ValidationFailed("build.tool", "must not be empty")
	}
	if b.Jobs < 1 {
		return bnerrors.ValidationFailed("build.jobs", fmt.Sprintf("must be at least 1, got %d", b.Jobs))
	}
	return nil
}

func (cv *configurationValidator) validateNotify() error {
	n := cv.config.Notify
	if n.NATSURL == "" {
		return nil
	}
	u, err := url.Parse(n.NATSURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return bnerrors.ValidationFailed("notify.nats_url", fmt.Sprintf("invalid URL %q", n.NATSURL))
	}
	if n.Subject == "" {
		return bnerrors.ValidationFailed("notify.subject", "required when nats_url is set")
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	w := cv.config.Watch
	if w.Debounce < 0 {
		return bnerrors.ValidationFailed("watch.debounce", "must not be negative")
	}
	if w.Interval < 0 {
		return bnerrors.ValidationFailed("watch.interval", "must not be negative")
	}
	if w.Interval > 0 && w.Interval < time.Second {
		return bnerrors.ValidationFailed("watch.interval", "must be at least 1s when set")
	}
	return nil
}
