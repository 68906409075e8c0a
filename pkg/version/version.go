package version

// Set at build time with
//
//	-ldflags "-X github.com/chmdznr/oss-component-checker/pkg/version.Version=v1.2.0 ..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
