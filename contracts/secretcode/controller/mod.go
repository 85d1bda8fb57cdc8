// Package controller defines the command line interface of the secret code
// contract. Every command opens the checkpoint database, restores the state of
// the contract, and checkpoints it again after a command is applied.
//
// Documentation Last Review: 16.10.2026
package controller

import (
	"io"
	"os"
	"syscall"

	"go.dedis.ch/confidential/cli"
	"go.dedis.ch/confidential/proxy"
	"go.dedis.ch/confidential/proxy/http"
	"golang.org/x/xerrors"
)

// Context is the context given to an action.
type Context struct {
	Flags cli.Flags
	Out   io.Writer
}

// actionTemplate is the interface implemented by the actions of the commands.
type actionTemplate interface {
	Execute(ctx Context) error
}

// Controller registers the commands of the contract to a CLI builder.
type Controller struct {
	out      io.Writer
	proxyFac func(addr string) proxy.Proxy
	sigs     chan os.Signal
}

// NewController returns a controller that writes the output of the commands
// to the writer.
func NewController(out io.Writer) Controller {
	return Controller{
		out: out,
		proxyFac: func(addr string) proxy.Proxy {
			return http.NewHTTP(addr)
		},
		sigs: make(chan os.Signal, 1),
	}
}

// GlobalFlags returns the flags available to every command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "path to the YAML configuration file",
		},
		cli.StringFlag{
			Name:  "db",
			Usage: "path to the checkpoint database (default: confidential.db)",
		},
		cli.StringFlag{
			Name:  "loglevel",
			Usage: "logging level (debug, info, warn, error, none)",
		},
		cli.BoolFlag{
			Name:  "tracing",
			Usage: "enable the jaeger tracer configured from the environment",
		},
	}
}

// SetCommands populates the builder with the commands of the contract.
func (c Controller) SetCommands(builder cli.Builder) {
	cmd := builder.SetCommand("keygen")
	cmd.SetDescription("generate a new account key")
	cmd.SetFlags(cli.StringFlag{
		Name:     "out",
		Usage:    "path of the file to write the private key to",
		Required: true,
	})
	cmd.SetAction(c.makeAction(keygenAction{}))

	cmd = builder.SetCommand("command")
	cmd.SetDescription("set the code of the account")
	cmd.SetFlags(
		cli.StringFlag{
			Name:     "key",
			Usage:    "path to the private key of the account",
			Required: true,
		},
		cli.StringFlag{
			Name:     "code",
			Usage:    "base64 encoded code to store",
			Required: true,
		},
		cli.BoolFlag{
			Name:  "encode",
			Usage: "base64 encode the code before storing it",
		},
		cli.IntFlag{
			Name:  "block",
			Usage: "block number of the transaction",
		},
		cli.IntFlag{
			Name:  "index",
			Usage: "index of the transaction in the block",
		},
	)
	cmd.SetAction(c.makeAction(commandAction{}))

	cmd = builder.SetCommand("query")
	cmd.SetDescription("read the decoded code of the account")
	cmd.SetFlags(cli.StringFlag{
		Name:  "key",
		Usage: "path to the private key of the account, anonymous if empty",
	})
	cmd.SetAction(c.makeAction(queryAction{}))

	cmd = builder.SetCommand("list")
	cmd.SetDescription("list the accounts having a code")
	cmd.SetAction(c.makeAction(listAction{}))

	cmd = builder.SetCommand("serve")
	cmd.SetDescription("start the http proxy answering the queries")
	cmd.SetFlags(cli.StringFlag{
		Name:  "listen",
		Usage: "address of the proxy (default: 127.0.0.1:8080)",
	})
	cmd.SetAction(c.makeAction(serveAction{
		proxyFac: c.proxyFac,
		sigs:     c.sigs,
	}))
}

func (c Controller) makeAction(tmpl actionTemplate) cli.Action {
	return func(flags cli.Flags) error {
		err := tmpl.Execute(Context{Flags: flags, Out: c.out})
		if err != nil {
			return xerrors.Errorf("command failed: %v", err)
		}

		return nil
	}
}

var stopSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
