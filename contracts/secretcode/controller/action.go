package controller

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"time"

	"go.dedis.ch/confidential"
	"go.dedis.ch/confidential/cli"
	"go.dedis.ch/confidential/contracts/secretcode"
	"go.dedis.ch/confidential/contracts/secretcode/types"
	"go.dedis.ch/confidential/core/account"
	"go.dedis.ch/confidential/core/execution"
	"go.dedis.ch/confidential/core/origin"
	"go.dedis.ch/confidential/core/txn"
	"go.dedis.ch/confidential/proxy"
	"go.dedis.ch/confidential/proxy/http"
	"golang.org/x/xerrors"
)

const keyFileMode = 0600

var (
	proxyRetries = 50
	proxyWait    = 20 * time.Millisecond
)

// keygenAction generates a new key and writes it to a file.
//
// - implements controller.actionTemplate
type keygenAction struct{}

// Execute implements controller.actionTemplate. It prints the account of the
// new key.
func (keygenAction) Execute(ctx Context) error {
	signer := origin.NewSigner()

	data, err := signer.MarshalBinary()
	if err != nil {
		return xerrors.Errorf("failed to marshal key: %v", err)
	}

	path := ctx.Flags.Path("out")

	err = os.WriteFile(path, data, keyFileMode)
	if err != nil {
		return xerrors.Errorf("failed to write key: %v", err)
	}

	fmt.Fprintln(ctx.Out, signer.GetAccount())

	return nil
}

// commandAction applies a SetCode command and checkpoints the state.
//
// - implements controller.actionTemplate
type commandAction struct{}

// Execute implements controller.actionTemplate.
func (commandAction) Execute(ctx Context) (err error) {
	ref, err := readRef(ctx.Flags)
	if err != nil {
		return err
	}

	signer, err := loadSigner(ctx.Flags.Path("key"))
	if err != nil {
		return err
	}

	code := ctx.Flags.String("code")
	if ctx.Flags.Bool("encode") {
		code = base64.StdEncoding.EncodeToString([]byte(code))
	}

	rt, err := openRuntime(ctx.Flags)
	if err != nil {
		return err
	}

	defer closeRuntime(rt, &err)

	data, err := types.SetCode{Code: code}.Serialize(rt.exec.GetContext())
	if err != nil {
		return xerrors.Errorf("failed to serialize command: %v", err)
	}

	log := txLog{out: ctx.Out}

	rt.exec.Watch(log)
	defer rt.exec.Unwatch(log)

	res := rt.exec.Execute(signer.GetAccount(), ref, secretcode.ContractID, data)
	if !res.Status.Accepted() {
		return xerrors.Errorf("transaction %v: %s", ref, res.Message)
	}

	err = rt.exec.Checkpoint(rt.db)
	if err != nil {
		return xerrors.Errorf("failed to checkpoint: %v", err)
	}

	return nil
}

// txLog prints the outcome of the executed commands.
//
// - implements core.Observer
type txLog struct {
	out io.Writer
}

// NotifyCallback implements core.Observer.
func (l txLog) NotifyCallback(evt execution.Event) {
	fmt.Fprintf(l.out, "%v %v\n", evt.Ref, evt.Result.Status)
}

// queryAction runs the DecodeStoredCode request and prints the response.
//
// - implements controller.actionTemplate
type queryAction struct{}

// Execute implements controller.actionTemplate. The query is signed when a key
// is given, anonymous otherwise.
func (queryAction) Execute(ctx Context) (err error) {
	rt, err := openRuntime(ctx.Flags)
	if err != nil {
		return err
	}

	defer closeRuntime(rt, &err)

	payload, err := types.DecodeStoredCode{}.Serialize(rt.exec.GetContext())
	if err != nil {
		return xerrors.Errorf("failed to serialize request: %v", err)
	}

	env := origin.Envelope{
		Contract: secretcode.ContractID,
		Payload:  payload,
	}

	path := ctx.Flags.Path("key")
	if path != "" {
		signer, err := loadSigner(path)
		if err != nil {
			return err
		}

		env, err = signer.Sign(secretcode.ContractID, payload)
		if err != nil {
			return xerrors.Errorf("failed to sign: %v", err)
		}
	}

	resp, err := rt.exec.QuerySigned(env)
	if err != nil {
		return xerrors.Errorf("failed to query: %v", err)
	}

	fmt.Fprintf(ctx.Out, "%s\n", resp)

	return nil
}

// listAction prints the accounts that stored a code, in order.
//
// - implements controller.actionTemplate
type listAction struct{}

// Execute implements controller.actionTemplate.
func (listAction) Execute(ctx Context) (err error) {
	rt, err := openRuntime(ctx.Flags)
	if err != nil {
		return err
	}

	defer closeRuntime(rt, &err)

	rt.contract.ForEach(func(id account.ID, _ string) bool {
		fmt.Fprintln(ctx.Out, id)
		return true
	})

	return nil
}

// serveAction starts the proxy and blocks until the process is interrupted.
//
// - implements controller.actionTemplate
type serveAction struct {
	proxyFac func(addr string) proxy.Proxy
	sigs     chan os.Signal
}

// Execute implements controller.actionTemplate.
func (a serveAction) Execute(ctx Context) (err error) {
	rt, err := openRuntime(ctx.Flags)
	if err != nil {
		return err
	}

	defer closeRuntime(rt, &err)

	metrics, err := http.NewMetricsHandler()
	if err != nil {
		return xerrors.Errorf("failed to create metrics handler: %v", err)
	}

	srv := a.proxyFac(rt.cfg.Listen)
	srv.RegisterHandler("/query", http.NewQueryHandler(rt.exec))
	srv.RegisterHandler("/metrics", metrics.ServeHTTP)

	go srv.Listen()

	for i := 0; i < proxyRetries && srv.GetAddr() == nil; i++ {
		time.Sleep(proxyWait)
	}

	if srv.GetAddr() == nil {
		return xerrors.New("failed to start proxy server")
	}

	signal.Notify(a.sigs, stopSignals...)
	defer signal.Stop(a.sigs)

	fmt.Fprintf(ctx.Out, "started proxy server on %s\n", srv.GetAddr())

	<-a.sigs

	srv.Stop()

	return nil
}

// readRef returns the position of the command. The block must fit in 32 bits
// and neither value can be negative.
func readRef(flags cli.Flags) (txn.Ref, error) {
	block := flags.Int("block")
	if block < 0 || uint64(block) > math.MaxUint32 {
		return txn.Ref{}, xerrors.Errorf("invalid block number: %d", block)
	}

	index := flags.Int("index")
	if index < 0 {
		return txn.Ref{}, xerrors.Errorf("invalid index: %d", index)
	}

	ref := txn.Ref{
		Block: uint32(block),
		Index: uint64(index),
	}

	return ref, nil
}

// closeRuntime closes the runtime and reports the failure through err unless
// the action already failed, in which case it is only logged.
func closeRuntime(rt *runtime, err *error) {
	errClose := rt.Close()
	if errClose == nil {
		return
	}

	if *err == nil {
		*err = errClose
		return
	}

	confidential.Logger.Warn().Err(errClose).Msg("failed to close runtime")
}

func loadSigner(path string) (origin.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return origin.Signer{}, xerrors.Errorf("failed to read key: %v", err)
	}

	signer, err := origin.LoadSigner(data)
	if err != nil {
		return origin.Signer{}, xerrors.Errorf("failed to load key: %v", err)
	}

	return signer, nil
}
