package main

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/solmusig2/agg/keystore"
	"github.com/solmusig2/agg/musig2"
	"github.com/solmusig2/agg/musig2err"
	"github.com/solmusig2/agg/soltx"
	"github.com/solmusig2/agg/wire"
)

var (
	keysFlag     string
	firstMsgsCSV string
	secretState  string
	sigsCSV      string
	mintFlag     string
	decimalsFlag uint8
	amountFlag   uint64
	toFlag       string
	memoFlag     string
	blockhashHex string
	includeATA   bool
)

var aggregateKeysCmd = &cobra.Command{
	Use:   "aggregate-keys",
	Short: "Print the base58 aggregated public key for a participant list",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := keystore.ParticipantListFromCSV(keysFlag)
		if err != nil {
			return err
		}
		agg, err := musig2.AggregateKeys(list, nil)
		if err != nil {
			return err
		}
		pub := agg.PublicKeyBytes()
		fmt.Println(solana.PublicKey(pub).String())
		return nil
	},
}

var aggSendStepOneCmd = &cobra.Command{
	Use:   "agg-send-step-one <private-key>",
	Short: "Run step_one: sample a fresh nonce pair and print the round-one messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sk, err := keystore.Load(args[0])
		if err != nil {
			return err
		}
		pub, secret, err := musig2.StepOne(sk)
		if err != nil {
			return err
		}
		fmt.Println("secret share:", wire.EncodeSecretAggStepOne(secret))
		fmt.Println("public share:", wire.EncodeAggMessage1(pub))
		return nil
	},
}

func parseFirstMsgs(csv string) ([]*musig2.AggMessage1, error) {
	parts := strings.Split(csv, ",")
	out := make([]*musig2.AggMessage1, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		m, err := wire.DecodeAggMessage1(p)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func parseSignatures(csv string) ([]*musig2.PartialSignature, error) {
	parts := strings.Split(csv, ",")
	out := make([]*musig2.PartialSignature, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		s, err := wire.DecodePartialSignature(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func parseBlockhash(s string) (solana.Hash, error) {
	h, err := solana.HashFromBase58(s)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("%w: invalid recent blockhash %q: %v", musig2err.ErrInvalidInput, s, err)
	}
	return h, nil
}

func addTransferFlags(cmd *cobra.Command, token bool) {
	cmd.Flags().StringVar(&keysFlag, "keys", "", "comma-separated base58 participant keys (required)")
	cmd.Flags().StringVar(&toFlag, "to", "", "recipient base58 address (required)")
	cmd.Flags().Uint64Var(&amountFlag, "amount", 0, "amount: lamports for sol, base units for token (required)")
	cmd.Flags().StringVar(&blockhashHex, "recent-block-hash", "", "base58 recent blockhash (required)")
	cmd.MarkFlagRequired("keys")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("recent-block-hash")
	if token {
		cmd.Flags().StringVar(&mintFlag, "mint", "", "token mint base58 address (required)")
		cmd.Flags().Uint8Var(&decimalsFlag, "decimals", 0, "token decimals (required)")
		cmd.Flags().BoolVar(&includeATA, "include-create-ata", false, "prepend create_associated_token_account (session parameter, spec §9)")
		cmd.MarkFlagRequired("mint")
		cmd.MarkFlagRequired("decimals")
	} else {
		cmd.Flags().StringVar(&memoFlag, "memo", "", "optional memo string")
	}
}

var aggSendStepTwoSolCmd = &cobra.Command{
	Use:   "agg-send-step-two-sol <private-key>",
	Short: "Run step_two over a native-SOL transfer and print the partial signature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStepTwoSol(args[0])
	},
}

var aggSendStepTwoTokenCmd = &cobra.Command{
	Use:   "agg-send-step-two-token <private-key>",
	Short: "Run step_two over an SPL-token transfer and print the partial signature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStepTwoToken(args[0])
	},
}

func init() {
	aggregateKeysCmd.Flags().StringVar(&keysFlag, "keys", "", "comma-separated base58 participant keys (required)")
	aggregateKeysCmd.MarkFlagRequired("keys")

	aggSendStepTwoSolCmd.Flags().StringVar(&firstMsgsCSV, "first-messages", "", "comma-separated tag-1 base58 strings (required)")
	aggSendStepTwoSolCmd.Flags().StringVar(&secretState, "secret-state", "", "tag-3 base58 secret state from step_one (required)")
	aggSendStepTwoSolCmd.MarkFlagRequired("first-messages")
	aggSendStepTwoSolCmd.MarkFlagRequired("secret-state")
	addTransferFlags(aggSendStepTwoSolCmd, false)

	aggSendStepTwoTokenCmd.Flags().StringVar(&firstMsgsCSV, "first-messages", "", "comma-separated tag-1 base58 strings (required)")
	aggSendStepTwoTokenCmd.Flags().StringVar(&secretState, "secret-state", "", "tag-3 base58 secret state from step_one (required)")
	aggSendStepTwoTokenCmd.MarkFlagRequired("first-messages")
	aggSendStepTwoTokenCmd.MarkFlagRequired("secret-state")
	addTransferFlags(aggSendStepTwoTokenCmd, true)

	aggregateSignAndBroadcastSolCmd.Flags().StringVar(&sigsCSV, "signatures", "", "comma-separated tag-2 base58 partial signatures (required)")
	aggregateSignAndBroadcastSolCmd.MarkFlagRequired("signatures")
	addTransferFlags(aggregateSignAndBroadcastSolCmd, false)

	aggregateSignAndBroadcastTokenCmd.Flags().StringVar(&sigsCSV, "signatures", "", "comma-separated tag-2 base58 partial signatures (required)")
	aggregateSignAndBroadcastTokenCmd.MarkFlagRequired("signatures")
	addTransferFlags(aggregateSignAndBroadcastTokenCmd, true)
}

func runStepTwoSol(privKeyPath string) error {
	sk, err := keystore.Load(privKeyPath)
	if err != nil {
		return err
	}
	list, err := keystore.ParticipantListFromCSV(keysFlag)
	if err != nil {
		return err
	}
	firstMsgs, err := parseFirstMsgs(firstMsgsCSV)
	if err != nil {
		return err
	}
	secret, err := wire.DecodeSecretAggStepOne(secretState)
	if err != nil {
		return err
	}
	blockhash, err := parseBlockhash(blockhashHex)
	if err != nil {
		return err
	}
	to, err := solana.PublicKeyFromBase58(toFlag)
	if err != nil {
		return err
	}

	tx, err := soltx.BuildSolTransfer(soltx.SolTransferParams{
		FeePayer:        feePayer(list),
		To:              to,
		Lamports:        amountFlag,
		Memo:            memoFlag,
		RecentBlockhash: blockhash,
	})
	if err != nil {
		return err
	}
	msg, err := soltx.SigningBytes(tx)
	if err != nil {
		return err
	}

	partial, err := musig2.StepTwo(sk, msg, list, firstMsgs, secret)
	if err != nil {
		return err
	}
	secret.Zeroize()
	fmt.Println("partial signature:", wire.EncodePartialSignature(partial))
	return nil
}

func runStepTwoToken(privKeyPath string) error {
	sk, err := keystore.Load(privKeyPath)
	if err != nil {
		return err
	}
	list, err := keystore.ParticipantListFromCSV(keysFlag)
	if err != nil {
		return err
	}
	firstMsgs, err := parseFirstMsgs(firstMsgsCSV)
	if err != nil {
		return err
	}
	secret, err := wire.DecodeSecretAggStepOne(secretState)
	if err != nil {
		return err
	}
	blockhash, err := parseBlockhash(blockhashHex)
	if err != nil {
		return err
	}
	to, err := solana.PublicKeyFromBase58(toFlag)
	if err != nil {
		return err
	}
	mint, err := solana.PublicKeyFromBase58(mintFlag)
	if err != nil {
		return err
	}

	tx, err := soltx.BuildTokenTransfer(soltx.TokenTransferParams{
		FeePayer:         feePayer(list),
		Mint:             mint,
		To:               to,
		Amount:           amountFlag,
		Decimals:         decimalsFlag,
		IncludeCreateATA: includeATA,
		RecentBlockhash:  blockhash,
	})
	if err != nil {
		return err
	}
	msg, err := soltx.SigningBytes(tx)
	if err != nil {
		return err
	}

	partial, err := musig2.StepTwo(sk, msg, list, firstMsgs, secret)
	if err != nil {
		return err
	}
	secret.Zeroize()
	fmt.Println("partial signature:", wire.EncodePartialSignature(partial))
	return nil
}

// feePayer recomputes X̃ from the participant list; every CLI invocation
// re-derives it rather than taking it as a flag, so it can never drift from
// the list actually supplied.
func feePayer(list musig2.ParticipantList) solana.PublicKey {
	agg, err := musig2.AggregateKeys(list, nil)
	if err != nil {
		// list was already validated by ParticipantListFromCSV; a failure
		// here means a point in the list is invalid, caught earlier.
		panic(err)
	}
	pub := agg.PublicKeyBytes()
	return solana.PublicKey(pub)
}

var aggregateSignAndBroadcastSolCmd = &cobra.Command{
	Use:   "aggregate-signatures-and-broadcast-sol",
	Short: "Run step_three over partial signatures and broadcast the SOL transfer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAggregateAndBroadcastSol()
	},
}

var aggregateSignAndBroadcastTokenCmd = &cobra.Command{
	Use:   "aggregate-signatures-and-broadcast-token",
	Short: "Run step_three over partial signatures and broadcast the token transfer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAggregateAndBroadcastToken()
	},
}

func runAggregateAndBroadcastSol() error {
	list, err := keystore.ParticipantListFromCSV(keysFlag)
	if err != nil {
		return err
	}
	sigs, err := parseSignatures(sigsCSV)
	if err != nil {
		return err
	}
	blockhash, err := parseBlockhash(blockhashHex)
	if err != nil {
		return err
	}
	to, err := solana.PublicKeyFromBase58(toFlag)
	if err != nil {
		return err
	}

	tx, err := soltx.BuildSolTransfer(soltx.SolTransferParams{
		FeePayer:        feePayer(list),
		To:              to,
		Lamports:        amountFlag,
		Memo:            memoFlag,
		RecentBlockhash: blockhash,
	})
	if err != nil {
		return err
	}
	msg, err := soltx.SigningBytes(tx)
	if err != nil {
		return err
	}

	final, err := musig2.StepThree(list, msg, sigs)
	if err != nil {
		return err
	}
	if err := soltx.AttachSignature(tx, final.Bytes()); err != nil {
		return err
	}

	return broadcast(tx)
}

func runAggregateAndBroadcastToken() error {
	list, err := keystore.ParticipantListFromCSV(keysFlag)
	if err != nil {
		return err
	}
	sigs, err := parseSignatures(sigsCSV)
	if err != nil {
		return err
	}
	blockhash, err := parseBlockhash(blockhashHex)
	if err != nil {
		return err
	}
	to, err := solana.PublicKeyFromBase58(toFlag)
	if err != nil {
		return err
	}
	mint, err := solana.PublicKeyFromBase58(mintFlag)
	if err != nil {
		return err
	}

	tx, err := soltx.BuildTokenTransfer(soltx.TokenTransferParams{
		FeePayer:         feePayer(list),
		Mint:             mint,
		To:               to,
		Amount:           amountFlag,
		Decimals:         decimalsFlag,
		IncludeCreateATA: includeATA,
		RecentBlockhash:  blockhash,
	})
	if err != nil {
		return err
	}
	msg, err := soltx.SigningBytes(tx)
	if err != nil {
		return err
	}

	final, err := musig2.StepThree(list, msg, sigs)
	if err != nil {
		return err
	}
	if err := soltx.AttachSignature(tx, final.Bytes()); err != nil {
		return err
	}

	return broadcast(tx)
}

func broadcast(tx *solana.Transaction) error {
	ctx := cmdContext()
	client, err := newClient()
	if err != nil {
		return err
	}
	sig, err := client.Broadcast(ctx, tx)
	if err != nil {
		return err
	}
	fmt.Println(sig.String())
	return nil
}
