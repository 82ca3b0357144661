package app

const ServiceName = "university-api"

// Set via -ldflags at build time:
//
//	go build -ldflags="-X 'github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/app.Version=1.0.0'"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
