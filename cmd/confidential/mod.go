// Package main implements the command line application of the secret code
// contract. The state is checkpointed into a bbolt database after every
// command.
//
//	confidential keygen --out alice.key
//	confidential command --key alice.key --code aGVsbG8=
//	confidential query --key alice.key
//	confidential list
//	confidential --config confidential.yaml serve --listen :8080
package main

import (
	"fmt"
	"io"
	"os"

	"go.dedis.ch/confidential/cli/ucli"
	"go.dedis.ch/confidential/contracts/secretcode/controller"
)

func main() {
	err := run(os.Args, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	builder := ucli.NewBuilder("confidential", nil,
		ucli.WithUsage("confidential contract runtime"),
		ucli.WithFlags(controller.GlobalFlags()...),
		ucli.WithWriter(out))

	controller.NewController(out).SetCommands(builder)

	return builder.Build().Run(args)
}
