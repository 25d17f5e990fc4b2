package cli

import (
	"github.com/spf13/cobra"

	"github.com/semenovdl/tokenkeeper/internal/agent/api"
	"github.com/semenovdl/tokenkeeper/internal/agent/crypto"
)

// для тестов
var (
	NewAPIClient = api.NewClient
	SealBlob     = crypto.Seal
	UnsealBlob   = crypto.Unseal
	ReadPassword = func(cmd *cobra.Command, fromStdin bool) (string, error) {
		return readPassword(cmd, fromStdin)
	}
)
