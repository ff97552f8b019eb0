package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/smilo-platform/go-lamportmt"

	"github.com/urfave/cli"
)

func cmdTypes(c *cli.Context) error {
	for _, name := range lamportmt.ListNames() {
		ctx := lamportmt.NewContextFromName(name)
		fmt.Printf("%s  prefix %c  %d layers  %d keypairs\n",
			ctx.Name(), ctx.AddressType().Prefix(), ctx.Layers(),
			ctx.MaxIndex()+1)
	}

	return nil
}

// Opens the TreeStore selected by the global flags.
func openStore(c *cli.Context) (lamportmt.TreeStore, error) {
	path := c.GlobalString("store-path")
	switch kind := c.GlobalString("store"); kind {
	case "mem":
		return lamportmt.NewMemTreeStore(), nil
	case "fs":
		return lamportmt.OpenFSTreeStore(path)
	case "leveldb":
		return lamportmt.OpenLevelDBTreeStore(path)
	default:
		return nil, fmt.Errorf("unknown store %q (use mem, fs or leveldb)", kind)
	}
}

func setup(c *cli.Context) error {
	if c.GlobalBool("verbose") {
		return lamportmt.EnableLogging()
	}
	return nil
}

func contextFromFlags(c *cli.Context) (*lamportmt.Context, error) {
	ctx := lamportmt.NewContextFromName(c.String("type"))
	if ctx == nil {
		return nil, fmt.Errorf("unknown address type %q", c.String("type"))
	}
	ctx.Threads = c.GlobalInt("threads")
	return ctx, nil
}

func cmdGenerate(c *cli.Context) error {
	return withWallet(c, func(w *lamportmt.Wallet, store lamportmt.TreeStore) error {
		ctx, err := contextFromFlags(c)
		if err != nil {
			return err
		}
		address, err2 := w.NewAddress(ctx, store)
		if err2 != nil {
			return err2
		}
		fmt.Println(address)
		return nil
	})
}

func cmdImport(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: import <private key>", 2)
	}
	return withWallet(c, func(w *lamportmt.Wallet, store lamportmt.TreeStore) error {
		ctx, err := contextFromFlags(c)
		if err != nil {
			return err
		}
		address, err2 := w.ImportPrivateKey(ctx, store, c.Args().First())
		if err2 != nil {
			return err2
		}
		fmt.Println(address)
		return nil
	})
}

func cmdSign(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: sign --index <n> [--address <a>] <message>", 2)
	}
	return withWallet(c, func(w *lamportmt.Wallet, store lamportmt.TreeStore) error {
		address := c.String("address")
		if address == "" {
			var ok bool
			if address, ok = w.Default(); !ok {
				return fmt.Errorf("wallet %s is empty", c.GlobalString("wallet"))
			}
		}
		privateKey, ok := w.PrivateKey(address)
		if !ok {
			return fmt.Errorf("%s is not in the wallet", address)
		}
		signer := lamportmt.NewSigner(store)
		signer.Threads = c.GlobalInt("threads")
		sig, err := signer.Sign(c.Args().First(), privateKey,
			c.Uint64("index"), address)
		if err != nil {
			return err
		}
		fmt.Println(sig)
		return nil
	})
}

func cmdVerify(c *cli.Context) error {
	if c.NArg() != 1 || c.String("address") == "" || c.String("signature") == "" {
		return cli.NewExitError(
			"usage: verify --address <a> --index <n> --signature <s> <message>", 2)
	}
	err := lamportmt.VerifyDetailed(c.Args().First(), c.String("signature"),
		c.String("address"), c.Uint64("index"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Println("valid")
	return nil
}

func cmdCheckAddress(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: check-address <address>", 2)
	}
	address := c.Args().First()
	if !lamportmt.CheckAddress(address) {
		return cli.NewExitError(fmt.Sprintf("invalid (expected %s)",
			lamportmt.AddressWithCase(address)), 1)
	}
	fmt.Printf("%s address\n", lamportmt.AddressTypeFromAddress(address))
	return nil
}

// Runs f with the wallet and store selected by the global flags and saves
// the wallet afterwards.
func withWallet(c *cli.Context, f func(*lamportmt.Wallet, lamportmt.TreeStore) error) error {
	if err := setup(c); err != nil {
		return err
	}
	w, err := lamportmt.LoadWallet(c.GlobalString("wallet"))
	if err != nil {
		return err
	}
	store, err2 := openStore(c)
	if err2 != nil {
		return err2
	}
	err2 = f(w, store)
	if err3 := store.Close(); err2 == nil && err3 != nil {
		err2 = err3
	}
	if err2 != nil {
		return err2
	}
	if err := w.Save(); err != nil {
		return err
	}
	return nil
}

func main() {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".lamportmt")

	app := cli.NewApp()
	app.Name = "lamportmt"
	app.Usage = "Merkle-authenticated Lamport signatures"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "store",
			Value:  "fs",
			Usage:  "where to keep Merkle trees: mem, fs or leveldb",
			EnvVar: "LAMPORTMT_STORE",
		},
		cli.StringFlag{
			Name:   "store-path",
			Value:  filepath.Join(dataDir, "trees"),
			Usage:  "directory of the fs or leveldb store",
			EnvVar: "LAMPORTMT_STORE_PATH",
		},
		cli.StringFlag{
			Name:   "wallet",
			Value:  filepath.Join(dataDir, "wallet.keys"),
			Usage:  "wallet file with address:privateKey lines",
			EnvVar: "LAMPORTMT_WALLET",
		},
		cli.IntFlag{
			Name:   "threads",
			Usage:  "worker goroutines for tree generation (0: one per CPU)",
			EnvVar: "LAMPORTMT_THREADS",
		},
		cli.BoolFlag{
			Name:   "verbose",
			Usage:  "log progress",
			EnvVar: "LAMPORTMT_VERBOSE",
		},
	}

	typeFlag := cli.StringFlag{
		Name:  "type",
		Value: "S1",
		Usage: "address type, see the types command",
	}
	indexFlag := cli.Uint64Flag{
		Name:  "index",
		Usage: "index of the one-time keypair; use each index only once",
	}

	app.Commands = []cli.Command{
		{
			Name:   "types",
			Usage:  "List address types",
			Action: cmdTypes,
		},
		{
			Name:   "generate",
			Usage:  "Generate a new address and add it to the wallet",
			Flags:  []cli.Flag{typeFlag},
			Action: cmdGenerate,
		},
		{
			Name:      "import",
			Usage:     "Add the address of a private key to the wallet",
			ArgsUsage: "<private key>",
			Flags:     []cli.Flag{typeFlag},
			Action:    cmdImport,
		},
		{
			Name:      "sign",
			Usage:     "Sign a message with an address from the wallet",
			ArgsUsage: "<message>",
			Flags: []cli.Flag{
				indexFlag,
				cli.StringFlag{
					Name:  "address",
					Usage: "signing address (default: first in wallet)",
				},
			},
			Action: cmdSign,
		},
		{
			Name:      "verify",
			Usage:     "Verify a signature",
			ArgsUsage: "<message>",
			Flags: []cli.Flag{
				indexFlag,
				cli.StringFlag{Name: "address", Usage: "signing address"},
				cli.StringFlag{Name: "signature", Usage: "the signature"},
			},
			Action: cmdVerify,
		},
		{
			Name:      "check-address",
			Usage:     "Check the checksum casing of an address",
			ArgsUsage: "<address>",
			Action:    cmdCheckAddress,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
