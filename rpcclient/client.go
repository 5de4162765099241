// Package rpcclient resolves the four network labels spec §6.3 names into
// RPC endpoints and wraps the handful of blocking calls the transaction
// binder boundary needs (spec §5, "Blocking I/O ... occurs only at the
// transaction-binder boundary"): blockhash lookup, ATA existence, balance
// queries, broadcast, and devnet/testnet airdrops.
//
// Grounded on other_examples/.../solana-complete-demo.go.go's use of
// rpc.New/rpc.DevNet_RPC/client.GetBalance/client.GetLatestBlockhash, the
// pack's one example of the real gagliardetto/solana-go/rpc client in
// action.
package rpcclient

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solmusig2/agg/musig2err"
)

// localnetRPC is not exported by solana-go (it only ships the three public
// clusters); spec §6.3 names a fourth label for a local validator.
const localnetRPC = "http://127.0.0.1:8899"

// ResolveNetwork maps a network label to its RPC URL (spec §6.3, "The core
// names four networks by label ... resolving to RPC URLs").
func ResolveNetwork(label string) (string, error) {
	switch label {
	case "mainnet":
		return rpc.MainNetBeta_RPC, nil
	case "testnet":
		return rpc.TestNet_RPC, nil
	case "devnet":
		return rpc.DevNet_RPC, nil
	case "localnet":
		return localnetRPC, nil
	default:
		return "", fmt.Errorf("%w: unknown network label %q", musig2err.ErrInvalidInput, label)
	}
}

// Client wraps an *rpc.Client bound to one resolved network label.
type Client struct {
	inner *rpc.Client
	log   *slog.Logger
}

// New resolves label and returns a Client bound to it.
func New(label string, logger *slog.Logger) (*Client, error) {
	url, err := ResolveNetwork(label)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("rpcclient: resolved network", "label", label, "url", url)
	return &Client{inner: rpc.New(url), log: logger}, nil
}

// LatestBlockhash fetches the current recent blockhash, the protocol input
// every party must share unchanged (spec §4.6).
func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.inner.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, &musig2err.RpcFailureError{Kind: "latest-blockhash", Err: err}
	}
	c.log.Debug("rpcclient: fetched blockhash", "blockhash", out.Value.Blockhash.String())
	return out.Value.Blockhash, nil
}

// AccountExists reports whether an account is present on chain, the
// building block for an ATA-existence check (spec §4.6). Per spec §9, the
// decision derived from this call belongs in session parameters
// (TokenTransferParams.IncludeCreateATA), not re-probed per party inside
// the binder.
func (c *Client) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	_, err := c.inner.GetAccountInfo(ctx, account)
	if err != nil {
		if err == rpc.ErrNotFound {
			return false, nil
		}
		return false, &musig2err.RpcFailureError{Kind: "account-info", Err: err}
	}
	return true, nil
}

// Balance returns the lamport balance of an account.
func (c *Client) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	out, err := c.inner.GetBalance(ctx, account, rpc.CommitmentFinalized)
	if err != nil {
		return 0, &musig2err.RpcFailureError{Kind: "balance", Err: err}
	}
	return out.Value, nil
}

// TokenBalance returns the token amount held by an SPL token account (a
// derived ATA, not a wallet address).
func (c *Client) TokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error) {
	out, err := c.inner.GetTokenAccountBalance(ctx, tokenAccount, rpc.CommitmentFinalized)
	if err != nil {
		return 0, &musig2err.RpcFailureError{Kind: "token-balance", Err: err}
	}
	var amount uint64
	_, err = fmt.Sscan(out.Value.Amount, &amount)
	if err != nil {
		return 0, &musig2err.RpcFailureError{Kind: "token-balance-parse", Err: err}
	}
	return amount, nil
}

// RequestAirdrop requests lamports for account from the bound network's
// faucet. It does not check the network label itself; a node without a
// faucet (mainnet) rejects the RPC call.
func (c *Client) RequestAirdrop(ctx context.Context, account solana.PublicKey, lamports uint64) (solana.Signature, error) {
	sig, err := c.inner.RequestAirdrop(ctx, account, lamports, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, &musig2err.RpcFailureError{Kind: "airdrop", Err: err}
	}
	c.log.Info("rpcclient: airdrop requested", "account", account.String(), "lamports", lamports, "sig", sig.String())
	return sig, nil
}

// Broadcast submits a fully-signed transaction and returns its signature
// (transaction ID).
func (c *Client) Broadcast(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.inner.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, &musig2err.RpcFailureError{Kind: "broadcast", Err: err}
	}
	c.log.Info("rpcclient: broadcast sent", "sig", sig.String())
	return sig, nil
}
