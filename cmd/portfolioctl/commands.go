package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"portfolio_tracker/internal/app/bootstrap"
	"portfolio_tracker/internal/app/service"
	"portfolio_tracker/internal/domain/entity"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type valueCmd struct{}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value a Solana address without registering it" }
func (*valueCmd) Usage() string {
	return `value <address>

  Reads the native and token balances of address and prices them with the configured oracle.
`
}
func (*valueCmd) SetFlags(*flag.FlagSet) {}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fail("value expects exactly one address")
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		fail("Error loading configuration: %v", err)
		return subcommands.ExitFailure
	}
	oracle, err := a.priceOracle(ctx)
	if err != nil {
		fail("Error creating price oracle: %v", err)
		return subcommands.ExitFailure
	}

	netDef := a.networks.Supported()
	chain := bootstrap.NewChainReader(a.cfg.Solana, netDef, a.log)
	tokens := bootstrap.NewTokenMetadata(a.cfg.TokenList, a.log)
	valuation := service.NewValuationService(a.networks, chain, tokens, oracle, nil, a.log)

	address := f.Arg(0)
	balance, err := valuation.ValueWallet(ctx, entity.Wallet{Name: address, Address: address, Network: netDef.Identifier})
	if err != nil {
		fail("Error valuing %s: %v", address, err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "SYMBOL\tNAME\tAMOUNT\tUSD\t")
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", balance.Native.Symbol, balance.Native.Name, balance.Native.Amount, formatUSD(balance.Native.UsdValue))
	for _, t := range balance.Tokens {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", t.Symbol, t.Name, t.Amount, formatUSD(t.UsdValue))
	}
	fmt.Fprintf(w, "TOTAL\t\t\t%s\t\n", formatUSD(balance.TotalValue))
	if err := w.Flush(); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type pricesCmd struct{}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "query USD prices from the configured oracle" }
func (*pricesCmd) Usage() string {
	return `prices <key>...

  Prints the USD price of each price key (CoinGecko id or solana:<mint>).
`
}
func (*pricesCmd) SetFlags(*flag.FlagSet) {}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fail("prices expects at least one key")
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		fail("Error loading configuration: %v", err)
		return subcommands.ExitFailure
	}
	oracle, err := a.priceOracle(ctx)
	if err != nil {
		fail("Error creating price oracle: %v", err)
		return subcommands.ExitFailure
	}

	keys := f.Args()
	prices := oracle.GetPrices(ctx, keys)
	sort.Strings(keys)
	for _, k := range keys {
		p, ok := prices[k]
		if !ok {
			fmt.Printf("%s\tunknown\n", k)
			continue
		}
		fmt.Printf("%s\t%s\n", k, decimal.NewFromFloat(p).String())
	}
	return subcommands.ExitSuccess
}

type tokenCmd struct{}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "look up token list metadata for a mint" }
func (*tokenCmd) Usage() string {
	return `token <mint>

  Prints the token list entry of mint.
`
}
func (*tokenCmd) SetFlags(*flag.FlagSet) {}

func (c *tokenCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fail("token expects exactly one mint")
		return subcommands.ExitUsageError
	}
	a, err := newApp()
	if err != nil {
		fail("Error loading configuration: %v", err)
		return subcommands.ExitFailure
	}

	tokens := bootstrap.NewTokenMetadata(a.cfg.TokenList, a.log)
	if err := tokens.Warm(ctx); err != nil {
		fail("Error loading token list: %v", err)
		return subcommands.ExitFailure
	}
	meta, ok := tokens.Resolve(ctx, f.Arg(0))
	if !ok {
		fail("%s is not in the token list", f.Arg(0))
		return subcommands.ExitFailure
	}

	fmt.Printf("mint:      %s\nsymbol:    %s\nname:      %s\ndecimals:  %d\n", meta.Address, meta.Symbol, meta.Name, meta.Decimals)
	if meta.CoingeckoID != "" {
		fmt.Printf("coingecko: %s\n", meta.CoingeckoID)
	}
	if meta.LogoURI != "" {
		fmt.Printf("logo:      %s\n", meta.LogoURI)
	}
	return subcommands.ExitSuccess
}
