package controller

import (
	"go.dedis.ch/confidential"
	"go.dedis.ch/confidential/cli"
	"go.dedis.ch/confidential/config"
	"go.dedis.ch/confidential/contracts/secretcode"
	"go.dedis.ch/confidential/core/execution/native"
	"go.dedis.ch/confidential/core/store/kv"
	"go.dedis.ch/confidential/internal/tracing"
	"golang.org/x/xerrors"
)

var getTracer = tracing.GetTracer

// runtime is the execution service with the contract registered and its state
// restored from the database.
type runtime struct {
	cfg      config.Config
	exec     *native.Service
	contract *secretcode.Contract
	db       kv.DB
}

// loadConfig reads the configuration file if any and applies the flags on
// top of it.
func loadConfig(flags cli.Flags) (config.Config, error) {
	cfg := config.Default()

	path := flags.Path("config")
	if path != "" {
		var err error

		cfg, err = config.Load(path)
		if err != nil {
			return cfg, err
		}
	}

	if flags.String("db") != "" {
		cfg.Database = flags.String("db")
	}

	if flags.String("loglevel") != "" {
		cfg.LogLevel = flags.String("loglevel")
	}

	if flags.IsSet("tracing") {
		cfg.Tracing.Enabled = flags.Bool("tracing")
	}

	if flags.IsSet("listen") && flags.String("listen") != "" {
		cfg.Listen = flags.String("listen")
	}

	return cfg, nil
}

func openRuntime(flags cli.Flags) (*runtime, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, xerrors.Errorf("failed to load config: %v", err)
	}

	if cfg.LogLevel != "" {
		confidential.Logger = confidential.Logger.Level(confidential.ParseLevel(cfg.LogLevel))
	}

	opts := []native.ServiceOption{}

	if cfg.Tracing.Enabled {
		tracer, err := getTracer(cfg.Tracing.Service)
		if err != nil {
			return nil, xerrors.Errorf("failed to get tracer: %v", err)
		}

		opts = append(opts, native.WithTracer(tracer))
	}

	db, err := kv.New(cfg.Database)
	if err != nil {
		return nil, xerrors.Errorf("failed to open database: %v", err)
	}

	exec := native.NewExecution(opts...)
	contract := secretcode.NewContract()

	secretcode.RegisterContract(exec, contract)

	err = exec.Restore(db)
	if err != nil {
		db.Close()
		return nil, xerrors.Errorf("failed to restore: %v", err)
	}

	rt := &runtime{
		cfg:      cfg,
		exec:     exec,
		contract: contract,
		db:       db,
	}

	return rt, nil
}

// Close releases the database and flushes the tracers.
func (rt *runtime) Close() error {
	err := rt.db.Close()
	if err != nil {
		return xerrors.Errorf("failed to close database: %v", err)
	}

	if rt.cfg.Tracing.Enabled {
		err = tracing.CloseAll()
		if err != nil {
			return xerrors.Errorf("failed to close tracers: %v", err)
		}
	}

	return nil
}
