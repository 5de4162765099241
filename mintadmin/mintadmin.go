// Package mintadmin supplies the mint-creation/mint-to test fixtures the
// original Rust program shipped (src/token.rs) for exercising the
// token-transfer path end-to-end. It is explicitly outside the signing
// core: spec.md §1 treats on-chain token-mint administration as an
// external collaborator, so nothing in musig2, wire, or soltx imports this
// package — only the CLI does.
package mintadmin

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solmusig2/agg/musig2err"
)

// mintAccountSize is the fixed size of an SPL token mint account.
const mintAccountSize = 82

// CreateMint builds and sends a transaction creating a new SPL token mint
// with mintAuthority as both mint and freeze authority, funded and signed
// by payer.
func CreateMint(ctx context.Context, client *rpc.Client, payer solana.PrivateKey, mintAuthority solana.PublicKey, decimals uint8) (solana.PublicKey, solana.Signature, error) {
	mint := solana.NewWallet()

	rentExempt, err := client.GetMinimumBalanceForRentExemption(ctx, mintAccountSize, rpc.CommitmentFinalized)
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, &musig2err.RpcFailureError{Kind: "rent-exemption", Err: err}
	}

	latest, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, &musig2err.RpcFailureError{Kind: "latest-blockhash", Err: err}
	}

	instructions := []solana.Instruction{
		system.NewCreateAccountInstruction(
			rentExempt,
			mintAccountSize,
			token.ProgramID,
			payer.PublicKey(),
			mint.PublicKey(),
		).Build(),
		token.NewInitializeMintInstruction(
			decimals,
			mintAuthority,
			mintAuthority,
			mint.PublicKey(),
			solana.SysVarRentPubkey,
		).Build(),
	}

	tx, err := solana.NewTransaction(instructions, latest.Value.Blockhash, solana.TransactionPayer(payer.PublicKey()))
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, fmt.Errorf("%w: %v", musig2err.ErrTransactionBuildFailure, err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer.PublicKey()) {
			return &payer
		}
		if key.Equals(mint.PublicKey()) {
			return &mint.PrivateKey
		}
		return nil
	}); err != nil {
		return solana.PublicKey{}, solana.Signature{}, fmt.Errorf("%w: signing create-mint tx: %v", musig2err.ErrTransactionBuildFailure, err)
	}

	sig, err := client.SendTransaction(ctx, tx)
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, &musig2err.RpcFailureError{Kind: "broadcast", Err: err}
	}
	return mint.PublicKey(), sig, nil
}

// MintTo mints amount base units of mint into wallet's associated token
// account, creating that ATA first if it does not already exist.
func MintTo(ctx context.Context, client *rpc.Client, payer solana.PrivateKey, mintAuthority solana.PrivateKey, mint, wallet solana.PublicKey, amount uint64) (solana.Signature, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: deriving ATA: %v", musig2err.ErrTransactionBuildFailure, err)
	}

	latest, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, &musig2err.RpcFailureError{Kind: "latest-blockhash", Err: err}
	}

	var instructions []solana.Instruction
	if _, err := client.GetAccountInfo(ctx, ata); err != nil {
		if err != rpc.ErrNotFound {
			return solana.Signature{}, &musig2err.RpcFailureError{Kind: "account-info", Err: err}
		}
		instructions = append(instructions, associatedtokenaccount.NewCreateInstruction(payer.PublicKey(), wallet, mint).Build())
	}
	instructions = append(instructions, token.NewMintToInstruction(amount, mint, ata, mintAuthority.PublicKey(), nil).Build())

	tx, err := solana.NewTransaction(instructions, latest.Value.Blockhash, solana.TransactionPayer(payer.PublicKey()))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %v", musig2err.ErrTransactionBuildFailure, err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer.PublicKey()) {
			return &payer
		}
		if key.Equals(mintAuthority.PublicKey()) {
			return &mintAuthority
		}
		return nil
	}); err != nil {
		return solana.Signature{}, fmt.Errorf("%w: signing mint-to tx: %v", musig2err.ErrTransactionBuildFailure, err)
	}

	sig, err := client.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, &musig2err.RpcFailureError{Kind: "broadcast", Err: err}
	}
	return sig, nil
}
