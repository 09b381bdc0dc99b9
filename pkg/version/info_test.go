package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubBuildMetadata(t *testing.T, appVersion, commit, buildTime string) {
	t.Helper()
	oldVersion, oldCommit, oldBuildTime := AppVersion, GitCommit, BuildTime
	t.Cleanup(func() {
		AppVersion, GitCommit, BuildTime = oldVersion, oldCommit, oldBuildTime
	})
	AppVersion, GitCommit, BuildTime = appVersion, commit, buildTime
}

func TestCurrent_Defaults(t *testing.T) {
	stubBuildMetadata(t, "", "", "")

	info := Current("")

	assert.Equal(t, Unknown, info.Service)
	assert.Equal(t, DevelopmentVersion, info.Version)
	assert.Equal(t, Unknown, info.Commit)
	assert.Equal(t, Unknown, info.BuildTime)
}

func TestCurrent_InjectedMetadata(t *testing.T) {
	stubBuildMetadata(t, " v2.1.0 ", "abc1234", "2026-01-15T10:00:00Z")

	info := Current("mistertoy-server")

	assert.Equal(t, "mistertoy-server", info.Service)
	assert.Equal(t, "v2.1.0", info.Version)
	assert.Equal(t, "abc1234", info.Commit)
}

func TestInfo_ParseBuildTime(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	parsed, ok := Info{BuildTime: now.Format(time.RFC3339)}.ParseBuildTime()
	require.True(t, ok)
	assert.True(t, parsed.Equal(now))

	_, ok = Info{BuildTime: Unknown}.ParseBuildTime()
	assert.False(t, ok)

	_, ok = Info{BuildTime: "yesterday"}.ParseBuildTime()
	assert.False(t, ok)
}

func TestInfo_String(t *testing.T) {
	info := Info{Service: "mistertoy-server", Version: "v1.0.0", Commit: "abc1234", BuildTime: Unknown}
	assert.Equal(t, "mistertoy-server@v1.0.0 (commit=abc1234, build_time=unknown)", info.String())
}
