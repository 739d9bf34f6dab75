// Command ledgerscript-cli is a thin, stateless demonstration driver over
// the engine: each subcommand builds fresh in-process state (a chain for
// mine and balance, a demo mempool for select), runs against it, and exits. It carries no persistence and no networking —
// those are explicit non-goals of the engine itself, so the driver that
// exercises it stays equally thin.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"

	"ledgerscript.dev/engine/chain"
	"ledgerscript.dev/engine/chainconfig"
	"ledgerscript.dev/engine/hash"
	"ledgerscript.dev/engine/mempool"
	"ledgerscript.dev/engine/selection"
)

var nowUnix = func() uint32 { return 1700000000 }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	parser := flags.NewParser(&struct{}{}, flags.Default)
	parser.Name = "ledgerscript-cli"

	mine := &mineCmd{stdout: stdout}
	balance := &balanceCmd{stdout: stdout}
	if _, err := parser.AddCommand("mine", "mine N blocks and report the miner's resulting balance", "", mine); err != nil {
		_, _ = fmt.Fprintf(stderr, "command registration failed: %v\n", err)
		return 2
	}
	if _, err := parser.AddCommand("balance", "report an address's genesis-only balance", "", balance); err != nil {
		_, _ = fmt.Fprintf(stderr, "command registration failed: %v\n", err)
		return 2
	}
	sel := &selectCmd{stdout: stdout}
	if _, err := parser.AddCommand("select", "run a block-assembly strategy over a demo mempool", "", sel); err != nil {
		_, _ = fmt.Fprintf(stderr, "command registration failed: %v\n", err)
		return 2
	}

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			_, _ = fmt.Fprintln(stdout, err)
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}
	return 0
}

type genesisOpts struct {
	GenesisAddress string `long:"genesis-address" default:"genesis" description:"address funded by the genesis block"`
	GenesisAmount  uint64 `long:"genesis-amount" default:"5000000000" description:"satoshis funded to genesis-address"`
	Difficulty     uint32 `long:"difficulty" default:"1" description:"leading hex zero characters required of a block hash"`
}

func (g genesisOpts) newChain() *chain.Chain {
	cfg := chainconfig.Default()
	cfg.Difficulty = g.Difficulty
	return chain.New(cfg, hash.MACSigner{}, g.GenesisAddress, g.GenesisAmount, nowUnix())
}

type mineCmd struct {
	genesisOpts
	Blocks int    `long:"blocks" default:"1" description:"number of blocks to mine"`
	Miner  string `long:"miner" required:"true" description:"address credited with each block's mining reward"`

	stdout io.Writer
}

func (c *mineCmd) Execute(args []string) error {
	if c.Blocks <= 0 {
		return fmt.Errorf("mine: --blocks must be positive, got %d", c.Blocks)
	}
	ch := c.newChain()
	for i := 0; i < c.Blocks; i++ {
		b, err := ch.MinePending(c.Miner)
		if err != nil {
			return fmt.Errorf("mine: block %d: %w", i, err)
		}
		_, _ = fmt.Fprintf(c.stdout, "mined: height=%d hash=%s nonce=%d tx_count=%d\n",
			b.Index, b.Hash, b.Nonce, len(b.Transactions))
	}
	_, _ = fmt.Fprintf(c.stdout, "balance: address=%s satoshis=%d\n", c.Miner, ch.UTXO.BalanceOf(c.Miner))
	return nil
}

type balanceCmd struct {
	genesisOpts
	Address string `long:"address" required:"true" description:"address to report the balance of"`

	stdout io.Writer
}

func (c *balanceCmd) Execute(args []string) error {
	ch := c.newChain()
	_, _ = fmt.Fprintf(c.stdout, "balance: address=%s satoshis=%d\n", c.Address, ch.UTXO.BalanceOf(c.Address))
	return nil
}

// selectCmd demonstrates Component I over a small synthetic mempool: a
// CPFP-shaped package (a high-fee child paying for a low-fee parent) plus a
// handful of unrelated fillers, the same pattern selection's own tests build.
type selectCmd struct {
	Strategy string `long:"strategy" default:"greedy" description:"block-assembly strategy to run: greedy, knapsack, ancestor-set, or annealing"`
	Budget   uint64 `long:"budget" default:"0" description:"block-size budget in bytes; 0 uses chainconfig.Default().MempoolBudgetBytes"`

	stdout io.Writer
}

func demoMempool() *mempool.Mempool {
	m := mempool.New()
	_ = m.Add("parent", 500, 250, nil)
	_ = m.Add("child", 60000, 250, []string{"parent"})
	_ = m.Add("filler-1", 20000, 200, nil)
	_ = m.Add("filler-2", 15000, 200, nil)
	_ = m.Add("filler-3", 5000, 200, nil)
	return m
}

func (c *selectCmd) Execute(args []string) error {
	cfg := chainconfig.Default()
	budget := c.Budget
	if budget == 0 {
		budget = cfg.MempoolBudgetBytes
	}

	m := demoMempool()
	var r selection.Result
	switch c.Strategy {
	case "greedy":
		r = selection.Greedy(m, budget)
	case "knapsack":
		r = selection.Knapsack(m, budget)
	case "ancestor-set":
		r = selection.AncestorSet(m, budget)
	case "annealing":
		r = selection.SimulatedAnnealing(m, budget, selection.ConfigFromChain(cfg))
	default:
		return fmt.Errorf("select: unknown strategy %q", c.Strategy)
	}

	_, _ = fmt.Fprintf(c.stdout, "select: strategy=%s budget=%d selected=%v fee=%d size=%d\n",
		c.Strategy, budget, r.Selected, r.TotalFee, r.TotalSize)
	return nil
}
