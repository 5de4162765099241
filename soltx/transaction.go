// Package soltx is the transaction binder (spec §4.6): it produces the
// byte-identical unsigned Solana transaction every party signs over, and
// re-produces the same message at aggregation time to attach the final
// signature.
//
// Grounded on the instruction-list/compile/serialize shape of
// other_examples/.../sol_serialize.go, rebuilt on the real
// github.com/gagliardetto/solana-go SDK (NewTransaction, programs/system,
// programs/token, programs/associated-token-account) instead of that file's
// hand-rolled account-key compiler.
package soltx

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"

	"github.com/solmusig2/agg/musig2err"
)

// MemoProgramID is the standard SPL Memo program, used for the optional memo
// instruction on native-SOL transfers (spec §4.6, "optional memo").
var MemoProgramID = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

// SolTransferParams describes one native-SOL transfer session. FeePayer is
// the aggregated public key X̃; every field must be identical across
// parties for step_two to produce matching R (spec §4.6).
type SolTransferParams struct {
	FeePayer        solana.PublicKey
	To              solana.PublicKey
	Lamports        uint64
	Memo            string
	RecentBlockhash solana.Hash
}

// BuildSolTransfer assembles the unsigned native-SOL transfer transaction:
// (optional memo, transfer(from=X̃, to, lamports)) with one signature slot
// reserved for the aggregated fee payer (spec §4.6).
func BuildSolTransfer(p SolTransferParams) (*solana.Transaction, error) {
	var instructions []solana.Instruction
	if p.Memo != "" {
		instructions = append(instructions, newMemoInstruction(p.Memo, p.FeePayer))
	}
	instructions = append(instructions, system.NewTransferInstruction(
		p.Lamports,
		p.FeePayer,
		p.To,
	).Build())

	tx, err := solana.NewTransaction(instructions, p.RecentBlockhash, solana.TransactionPayer(p.FeePayer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", musig2err.ErrTransactionBuildFailure, err)
	}
	return tx, nil
}

// TokenTransferParams describes one SPL-token transfer session.
// IncludeCreateATA must be decided once (by a coordinator, or by every party
// independently querying and comparing) and carried as a session parameter
// rather than re-probed inside the binder: a per-party re-query can
// disagree under a concurrent ATA creation, which would silently produce
// different signed messages and fail aggregation (spec §9, "ATA existence
// oracle").
type TokenTransferParams struct {
	FeePayer         solana.PublicKey
	Mint             solana.PublicKey
	To               solana.PublicKey
	Amount           uint64
	Decimals         uint8
	IncludeCreateATA bool
	RecentBlockhash  solana.Hash
}

// BuildTokenTransfer assembles the unsigned SPL-token transfer transaction:
// an optional create_associated_token_account instruction, followed by
// transfer_checked(mint, source_ATA, destination_ATA, authority=X̃, amount,
// decimals) (spec §4.6).
func BuildTokenTransfer(p TokenTransferParams) (*solana.Transaction, error) {
	sourceATA, _, err := solana.FindAssociatedTokenAddress(p.FeePayer, p.Mint)
	if err != nil {
		return nil, fmt.Errorf("%w: deriving source ATA: %v", musig2err.ErrTransactionBuildFailure, err)
	}
	destATA, _, err := solana.FindAssociatedTokenAddress(p.To, p.Mint)
	if err != nil {
		return nil, fmt.Errorf("%w: deriving destination ATA: %v", musig2err.ErrTransactionBuildFailure, err)
	}

	var instructions []solana.Instruction
	if p.IncludeCreateATA {
		instructions = append(instructions, associatedtokenaccount.NewCreateInstruction(
			p.FeePayer,
			p.To,
			p.Mint,
		).Build())
	}
	instructions = append(instructions, token.NewTransferCheckedInstruction(
		p.Amount,
		p.Decimals,
		sourceATA,
		p.Mint,
		destATA,
		p.FeePayer,
		nil,
	).Build())

	tx, err := solana.NewTransaction(instructions, p.RecentBlockhash, solana.TransactionPayer(p.FeePayer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", musig2err.ErrTransactionBuildFailure, err)
	}
	return tx, nil
}

// SigningBytes returns the exact bytes every party must run step_two over:
// the compiled, unsigned message (spec §4.6, "the bytes signed by every
// party are derived from the same ... tuple").
func SigningBytes(tx *solana.Transaction) ([]byte, error) {
	b, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", musig2err.ErrTransactionBuildFailure, err)
	}
	return b, nil
}

// AttachSignature fills the transaction's single signature slot with the
// aggregated signature, producing a broadcastable transaction (spec §4.6,
// §4.4).
func AttachSignature(tx *solana.Transaction, sig [64]byte) error {
	if len(tx.Message.AccountKeys) == 0 {
		return fmt.Errorf("%w: empty message", musig2err.ErrTransactionBuildFailure)
	}
	var s solana.Signature
	copy(s[:], sig[:])
	tx.Signatures = []solana.Signature{s}
	return nil
}

func newMemoInstruction(memo string, signer solana.PublicKey) solana.Instruction {
	return &genericMemoInstruction{
		memo:   []byte(memo),
		signer: signer,
	}
}

// genericMemoInstruction is a minimal solana.Instruction for the SPL Memo
// program, which solana-go does not ship a typed builder for.
type genericMemoInstruction struct {
	memo   []byte
	signer solana.PublicKey
}

func (m *genericMemoInstruction) ProgramID() solana.PublicKey {
	return MemoProgramID
}

func (m *genericMemoInstruction) Accounts() []*solana.AccountMeta {
	return []*solana.AccountMeta{
		solana.NewAccountMeta(m.signer, false, true),
	}
}

func (m *genericMemoInstruction) Data() ([]byte, error) {
	return m.memo, nil
}
