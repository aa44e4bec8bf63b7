package helius

import (
	"os"
	"testing"

	"github.com/ninja0404/wallet-mirror/pkg/logger"
)

func TestMain(m *testing.M) {
	l := (&logger.Config{Level: "error", Discard: true, DisableSentry: true}).Build()
	logger.SetDefault(l)
	logger.SetDefaultL1(l)
	os.Exit(m.Run())
}
