// Package misc keeps build information, values are set with -ldflags "-X".
package misc

var (
	appName = "lynxssr"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
