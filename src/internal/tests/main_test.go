package services_test

import (
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/api-sage/account-ledger/src/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Replace(zap.NewNop())
	os.Exit(m.Run())
}
