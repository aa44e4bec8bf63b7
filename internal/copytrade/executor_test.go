package copytrade

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ninja0404/wallet-mirror/internal/model"
)

func TestExecute_RejectsUntrackedTrade(t *testing.T) {
	executor := NewKafkaExecutor(Config{Topic: "copy-trade-exec"})

	err := executor.Execute(&model.ProcessedTrade{Signature: "sig-x"})
	require.Error(t, err, "未关联跟踪钱包的交易不允许触发")
}
