package main

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"os/exec"
	"time"

	"lnr/internal/api"
	"lnr/internal/config"
)

const (
	serverStartTimeout = 5 * time.Second
	serverPollInterval = 100 * time.Millisecond
	pingTimeout        = 500 * time.Millisecond
)

// withClient runs fn against the configured API, starting a local server
// for the duration of the call when none is reachable.
func withClient(ctx context.Context, cfg *config.Config, fn func(*api.Client) error) error {
	client := api.NewClient(cfg.APIURL)

	stop, err := ensureServer(ctx, cfg, client)
	if err != nil {
		return err
	}
	if stop != nil {
		defer stop()
	}
	return fn(client)
}

func ensureServer(ctx context.Context, cfg *config.Config, client *api.Client) (func(), error) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := client.Ping(pingCtx)
	cancel()
	if err == nil {
		return nil, nil
	}

	cmd, err := startServerProcess(cfg)
	if err != nil {
		return nil, err
	}
	stop := func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}

	if err := waitForServer(ctx, client, serverStartTimeout); err != nil {
		stop()
		return nil, err
	}
	return stop, nil
}

func startServerProcess(cfg *config.Config) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(exe, "srv")
	cmd.Env = append(os.Environ(), serverEnv(cfg)...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// serverEnv pins the child server to the caller's resolved configuration.
func serverEnv(cfg *config.Config) []string {
	env := []string{
		"LNR_API_URL=" + cfg.APIURL,
		"LNR_DB_DRIVER=" + cfg.DBDriver,
		"LNR_DB=" + cfg.DBPath,
	}
	if cfg.DatabaseURL != "" {
		env = append(env, "DATABASE_URL="+cfg.DatabaseURL)
	}
	return env
}

func waitForServer(ctx context.Context, client *api.Client, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		pingCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
		err := client.Ping(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if !isConnRefused(err) {
			// Something else answers on the port.
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(serverPollInterval):
		}
	}
	return errors.New("server did not start in time")
}

func isConnRefused(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
