package error

import (
	"series_guide/configs"
	"series_guide/pkg/logger"

	"github.com/getsentry/sentry-go"
)

func SaveError(message string, err error) {
	if configs.GetConfigs().PrintErrors {
		if err != nil {
			logger.Error(message, "error", err)
		} else {
			logger.Error(message)
		}
	}

	if err == nil {
		sentry.CaptureMessage(message)
	} else {
		sentry.CaptureException(err)
	}
}
