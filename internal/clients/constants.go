package clients

import "time"

const (
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
	USER_AGENT      = "sentiboard-client/1.0 (+https://github.com/spacesedan/sentiboard)"

	SENTIMENT_PATH          = "/text/analytics/v3.1/sentiment"
	SUBSCRIPTION_KEY_HEADER = "Ocp-Apim-Subscription-Key"
)
