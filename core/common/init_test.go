package common

import (
	"os"
	"testing"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/gctx"
	"github.com/gogf/gf/v2/os/glog"
)

// TestMain keeps test logging on stdout only so runs do not leave
// log files behind.
func TestMain(m *testing.M) {
	ctx := gctx.GetInitCtx()
	logger := g.Log()

	logger.SetConfig(glog.Config{
		Flags:       glog.F_TIME_STD,
		Level:       glog.LEVEL_ALL,
		StdoutPrint: true,
		Path:        "",
		File:        "",
	})

	logger.Debug(ctx, "Test environment initialized - logging to stdout only")

	code := m.Run()
	os.Exit(code)
}
