// Command binhash generates SipHash keys and hashes files with them.
//
//	binhash genkey
//	binhash derive --secret s3cr3t --info users
//	binhash sum --key 000102030405060708090a0b0c0d0e0f file...
//
// The key for sum may also come from BINHASH_KEY or a config file given by
// --config with a "key" entry.
package main

import (
	"fmt"
	"hash"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/Giulio2002/binhash"
)

const usage = `usage: binhash <command> [flags]

commands:
  genkey   print a fresh random key
  derive   derive a key from a secret
  sum      hash files (or stdin) with a key
`

func main() {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	if err := run(os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		level.Error(logger).Log("msg", "binhash failed", "err", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, logger log.Logger) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return errors.New("no command given")
	}
	switch cmd, rest := args[0], args[1:]; cmd {
	case "genkey":
		return genkey(stdout)
	case "derive":
		return derive(rest, stdout)
	case "sum":
		return sum(rest, stdin, stdout, logger)
	default:
		fmt.Fprint(stdout, usage)
		return errors.Errorf("unknown command %q", cmd)
	}
}

func genkey(w io.Writer) error {
	key, err := binhash.GenerateKey()
	if err != nil {
		return err
	}
	return printKey(w, key)
}

func derive(args []string, w io.Writer) error {
	fs := pflag.NewFlagSet("derive", pflag.ContinueOnError)
	secret := fs.String("secret", "", "secret to derive the key from")
	salt := fs.String("salt", "", "optional salt")
	info := fs.String("info", "", "optional context, e.g. the table name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	key, err := binhash.DeriveKey([]byte(*secret), []byte(*salt), []byte(*info))
	if err != nil {
		return err
	}
	return printKey(w, key)
}

func sum(args []string, stdin io.Reader, w io.Writer, logger log.Logger) error {
	fs := pflag.NewFlagSet("sum", pflag.ContinueOnError)
	fs.String("key", "", "hex-encoded 128-bit key")
	fs.String("config", "", "config file with a key entry")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v, err := loadConfig(fs)
	if err != nil {
		return err
	}
	key, err := keyFromConfig(v)
	if err != nil {
		return err
	}

	h := binhash.New(key)
	if fs.NArg() == 0 {
		return sumOne(h, "-", stdin, w, logger)
	}
	for _, name := range fs.Args() {
		f, err := os.Open(name)
		if err != nil {
			return errors.Wrap(err, "opening input")
		}
		err = sumOne(h, name, f, w, logger)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func sumOne(h hash.Hash64, name string, r io.Reader, w io.Writer, logger log.Logger) error {
	h.Reset()
	start := time.Now()
	n, err := io.Copy(h, r)
	if err != nil {
		return errors.Wrapf(err, "reading %s", name)
	}
	elapsed := time.Since(start)

	if _, err := fmt.Fprintf(w, "%016x  %s\n", h.Sum64(), name); err != nil {
		return err
	}
	level.Info(logger).Log("msg", "hashed", "input", name, "size", humanize.IBytes(uint64(n)),
		"rate", rate(n, elapsed))
	return nil
}

func rate(n int64, d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}
	return humanize.IBytes(uint64(float64(n)/d.Seconds())) + "/s"
}

func printKey(w io.Writer, key binhash.Key) error {
	text, err := key.MarshalText()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", text)
	return err
}
