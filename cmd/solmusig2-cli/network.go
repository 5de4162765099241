package main

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"

	"github.com/solmusig2/agg/keystore"
	"github.com/solmusig2/agg/mintadmin"
	"github.com/solmusig2/agg/musig2err"
	"github.com/solmusig2/agg/rpcclient"
)

func cmdContext() context.Context {
	return context.Background()
}

func newClient() (*rpcclient.Client, error) {
	return rpcclient.New(netLabel, logger)
}

// rawRPCClient gives the mintadmin collaborators (which take *rpc.Client
// directly, not the rpcclient wrapper) a client bound to the same resolved
// URL rpcclient.New would have used.
func rawRPCClient() (*rpc.Client, error) {
	url, err := rpcclient.ResolveNetwork(netLabel)
	if err != nil {
		return nil, err
	}
	if rpcURLFlag != "" {
		url = rpcURLFlag
	}
	return rpc.New(url), nil
}

var (
	airdropSOL float64
	walletFlag string
)

var airdropCmd = &cobra.Command{
	Use:   "airdrop <address>",
	Short: "Request a devnet/testnet/localnet airdrop (unadvertised convenience verb)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if netLabel == "mainnet" {
			return fmt.Errorf("%w: airdrop is not available on mainnet", musig2err.ErrInvalidInput)
		}
		account, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		lamports := uint64(airdropSOL * 1e9)
		sig, err := client.RequestAirdrop(cmdContext(), account, lamports)
		if err != nil {
			return err
		}
		fmt.Println(sig.String())
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Print the lamport balance of an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		bal, err := client.Balance(cmdContext(), account)
		if err != nil {
			return err
		}
		fmt.Printf("%d lamports (%.9f SOL)\n", bal, float64(bal)/1e9)
		return nil
	},
}

var tokenBalanceCmd = &cobra.Command{
	Use:   "token-balance <wallet>",
	Short: "Print the SPL token balance of a wallet's associated token account for --mint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wallet, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return err
		}
		mint, err := solana.PublicKeyFromBase58(mintFlag)
		if err != nil {
			return err
		}
		ata, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		bal, err := client.TokenBalance(cmdContext(), ata)
		if err != nil {
			return err
		}
		fmt.Println(bal)
		return nil
	},
}

func init() {
	airdropCmd.Flags().Float64Var(&airdropSOL, "sol", 1.0, "amount of SOL to request")

	tokenBalanceCmd.Flags().StringVar(&mintFlag, "mint", "", "token mint base58 address (required)")
	tokenBalanceCmd.MarkFlagRequired("mint")

	createMintCmd.Flags().StringVar(&privKeyFlag, "payer", "", "path to fee-payer key material (required)")
	createMintCmd.Flags().StringVar(&walletFlag, "authority", "", "base58 mint/freeze authority (defaults to payer)")
	createMintCmd.Flags().Uint8Var(&decimalsFlag, "decimals", 6, "mint decimals")
	createMintCmd.MarkFlagRequired("payer")

	mintToCmd.Flags().StringVar(&privKeyFlag, "payer", "", "path to fee-payer key material (required)")
	mintToCmd.Flags().StringVar(&mintAuthorityFlag, "authority", "", "path to mint-authority key material (required)")
	mintToCmd.Flags().StringVar(&mintFlag, "mint", "", "token mint base58 address (required)")
	mintToCmd.Flags().Uint64Var(&amountFlag, "amount", 0, "base units to mint (required)")
	mintToCmd.MarkFlagRequired("payer")
	mintToCmd.MarkFlagRequired("authority")
	mintToCmd.MarkFlagRequired("mint")
	mintToCmd.MarkFlagRequired("amount")
}

var (
	privKeyFlag       string
	mintAuthorityFlag string
)

var createMintCmd = &cobra.Command{
	Use:   "create-mint <wallet-address-is-unused>",
	Short: "Create a new SPL token mint (test fixture, package mintadmin)",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		payerKey, err := keystore.Load(privKeyFlag)
		if err != nil {
			return err
		}
		payer := solana.PrivateKey(payerKey.ExpandedBytes())

		authority := payer.PublicKey()
		if walletFlag != "" {
			authority, err = solana.PublicKeyFromBase58(walletFlag)
			if err != nil {
				return err
			}
		}

		client, err := rawRPCClient()
		if err != nil {
			return err
		}
		mint, sig, err := mintadmin.CreateMint(cmdContext(), client, payer, authority, decimalsFlag)
		if err != nil {
			return err
		}
		fmt.Println("mint:", mint.String())
		fmt.Println("signature:", sig.String())
		return nil
	},
}

var mintToCmd = &cobra.Command{
	Use:   "mint-to <wallet-address>",
	Short: "Mint tokens into a wallet's associated token account (test fixture, package mintadmin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wallet, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return err
		}
		mint, err := solana.PublicKeyFromBase58(mintFlag)
		if err != nil {
			return err
		}
		payerKey, err := keystore.Load(privKeyFlag)
		if err != nil {
			return err
		}
		authorityKey, err := keystore.Load(mintAuthorityFlag)
		if err != nil {
			return err
		}
		payer := solana.PrivateKey(payerKey.ExpandedBytes())
		authority := solana.PrivateKey(authorityKey.ExpandedBytes())

		client, err := rawRPCClient()
		if err != nil {
			return err
		}
		sig, err := mintadmin.MintTo(cmdContext(), client, payer, authority, mint, wallet, amountFlag)
		if err != nil {
			return err
		}
		fmt.Println(sig.String())
		return nil
	},
}
