package client

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"
	"portfolio_tracker/internal/infrastructure/metrics"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const metricsClientName = "solana_rpc"

// SolanaClient implements port.ChainReader over a Solana JSON-RPC node.
type SolanaClient struct {
	rpcClient      *rpc.Client
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
	commitment     rpc.CommitmentType
	logger         port.Logger
}

// NewSolanaClient creates a client for the node at netDef.PrimaryRPCURL.
func NewSolanaClient(netDef entity.NetworkDefinition, rpcCallTimeout time.Duration, log port.Logger) *SolanaClient {
	return &SolanaClient{
		rpcClient:      rpc.New(netDef.PrimaryRPCURL),
		netDef:         netDef,
		rpcCallTimeout: rpcCallTimeout,
		commitment:     rpc.CommitmentConfirmed,
		logger:         log.With("component", "solana_client"),
	}
}

// ValidateAddress checks that address is a base58 encoded 32-byte public key.
func (c *SolanaClient) ValidateAddress(address string) error {
	_, err := parseAddress(address)
	return err
}

func parseAddress(address string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %q: %v", entity.ErrInvalidAddress, address, err)
	}
	return pk, nil
}

// GetNativeBalance returns the lamport balance of address.
func (c *SolanaClient) GetNativeBalance(ctx context.Context, address string) (uint64, error) {
	pk, err := parseAddress(address)
	if err != nil {
		return 0, err
	}

	rpcCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	start := time.Now()
	res, err := c.rpcClient.GetBalance(rpcCtx, pk, c.commitment)
	metrics.CollectRequestsMetric(metricsClientName, "getBalance", err, start)
	if err != nil {
		return 0, fmt.Errorf("%w: getBalance for %s: %w", entity.ErrExternalService, address, err)
	}
	if res == nil {
		return 0, fmt.Errorf("%w: getBalance for %s returned no result", entity.ErrExternalService, address)
	}
	return res.Value, nil
}

// GetTokenHoldings lists the SPL token accounts owned by address.
// Several accounts of the same mint are summed into one holding; order follows the first account of each mint.
func (c *SolanaClient) GetTokenHoldings(ctx context.Context, address string) ([]entity.RawHolding, error) {
	owner, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	rpcCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	programID := solana.TokenProgramID
	start := time.Now()
	res, err := c.rpcClient.GetTokenAccountsByOwner(rpcCtx, owner,
		&rpc.GetTokenAccountsConfig{ProgramId: &programID},
		&rpc.GetTokenAccountsOpts{Commitment: c.commitment, Encoding: solana.EncodingJSONParsed},
	)
	metrics.CollectRequestsMetric(metricsClientName, "getTokenAccountsByOwner", err, start)
	if err != nil {
		return nil, fmt.Errorf("%w: getTokenAccountsByOwner for %s: %w", entity.ErrExternalService, address, err)
	}
	if res == nil {
		return []entity.RawHolding{}, nil
	}

	raws := make([][]byte, 0, len(res.Value))
	for _, acct := range res.Value {
		if acct == nil || acct.Account.Data == nil {
			continue
		}
		raws = append(raws, acct.Account.Data.GetRawJSON())
	}
	return c.mergeTokenAccounts(address, raws), nil
}

func (c *SolanaClient) mergeTokenAccounts(owner string, raws [][]byte) []entity.RawHolding {
	holdings := make([]entity.RawHolding, 0, len(raws))
	byMint := make(map[string]int, len(raws))

	for _, raw := range raws {
		h, err := parseTokenAccount(raw)
		if err != nil {
			c.logger.Warn("Skipping unparsable token account", "owner", owner, "error", err)
			continue
		}
		if i, ok := byMint[h.TokenID]; ok {
			holdings[i].RawAmount = new(big.Int).Add(holdings[i].RawAmount, h.RawAmount)
			continue
		}
		byMint[h.TokenID] = len(holdings)
		holdings = append(holdings, h)
	}
	return holdings
}

// parsedTokenAccount is the jsonParsed encoding of an SPL token account.
type parsedTokenAccount struct {
	Parsed struct {
		Info struct {
			Mint        string `json:"mint"`
			TokenAmount struct {
				Amount   string `json:"amount"`
				Decimals uint8  `json:"decimals"`
			} `json:"tokenAmount"`
		} `json:"info"`
	} `json:"parsed"`
}

func parseTokenAccount(raw []byte) (entity.RawHolding, error) {
	if len(raw) == 0 {
		return entity.RawHolding{}, fmt.Errorf("account data is not jsonParsed")
	}
	var acct parsedTokenAccount
	if err := json.Unmarshal(raw, &acct); err != nil {
		return entity.RawHolding{}, fmt.Errorf("failed to decode token account: %w", err)
	}
	info := acct.Parsed.Info
	if info.Mint == "" {
		return entity.RawHolding{}, fmt.Errorf("token account without mint")
	}
	amount, ok := new(big.Int).SetString(info.TokenAmount.Amount, 10)
	if !ok {
		return entity.RawHolding{}, fmt.Errorf("invalid token amount %q for mint %s", info.TokenAmount.Amount, info.Mint)
	}
	return entity.RawHolding{TokenID: info.Mint, RawAmount: amount, Decimals: info.TokenAmount.Decimals}, nil
}

var _ port.ChainReader = (*SolanaClient)(nil)
