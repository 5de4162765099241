// Command solmusig2-cli is the reference CLI collaborator for the
// aggregated-signing core (spec §6.1): one subcommand per stable verb, plus
// the supplemented convenience verbs from SPEC_FULL.md.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	netLabel   string
	rpcURLFlag string
	verbose    bool

	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "solmusig2-cli",
		Short: "MuSig2-over-Ed25519 aggregated signing for Solana transfers",
		Long: `solmusig2-cli drives the two-round MuSig2 protocol (spec §2-§4) that lets
N >= 2 Ed25519 keypairs jointly authorize one Solana native-SOL or SPL-token
transfer under a single aggregated public key.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&netLabel, "net", "devnet", "network label: mainnet, testnet, devnet, localnet")
	rootCmd.PersistentFlags().StringVar(&rpcURLFlag, "rpc-url", "", "override the RPC URL resolved from --net (create-mint and mint-to only)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		aggregateKeysCmd,
		aggSendStepOneCmd,
		aggSendStepTwoSolCmd,
		aggSendStepTwoTokenCmd,
		aggregateSignAndBroadcastSolCmd,
		aggregateSignAndBroadcastTokenCmd,
		airdropCmd,
		balanceCmd,
		tokenBalanceCmd,
		createMintCmd,
		mintToCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
