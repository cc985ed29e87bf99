package state

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/ianaindex"

	"mwrender/config"
)

func TestEnvFromContext(t *testing.T) {
	t.Run("prepared by ContextWithEnv", func(t *testing.T) {
		env := EnvFromContext(ContextWithEnv(context.Background()))
		if env.start.IsZero() {
			t.Error("Environment start time not set")
		}
		if env.Log == nil {
			t.Fatal("default logger should not be nil")
		}
		// must be safe to use before configuration is loaded
		env.Log.Info("ignored")
	})

	t.Run("prepared by caller", func(t *testing.T) {
		cp, err := ianaindex.IANA.Encoding("windows-1251")
		if err != nil {
			t.Fatalf("unable to get encoding: %v", err)
		}
		env := &LocalEnv{Cfg: &config.Config{Version: 1}, Overwrite: true, CodePage: cp}

		got := EnvFromContext(ContextWith(context.Background(), env))
		if got != env {
			t.Fatal("EnvFromContext() returned different environment")
		}
		if got.start.IsZero() {
			t.Error("start time should be set by ContextWith")
		}
		if !got.Overwrite || got.CodePage != cp {
			t.Errorf("convert settings lost: overwrite=%v codepage=%v", got.Overwrite, got.CodePage)
		}
	})

	t.Run("panic on missing env", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when env not in context")
			}
		}()
		EnvFromContext(context.Background())
	})
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now()}

	for _, delay := range []time.Duration{5 * time.Millisecond, 10 * time.Millisecond} {
		time.Sleep(delay)
		if uptime := env.Uptime(); uptime < delay {
			t.Errorf("After %v delay, uptime %v is too small", delay, uptime)
		}
	}
}

func TestLocalEnv_StdLog(t *testing.T) {
	t.Run("redirect and restore cycles", func(t *testing.T) {
		env := &LocalEnv{Log: zaptest.NewLogger(t)}
		for i := range 3 {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Errorf("Iteration %d: restoreStdLog not set", i)
			}
			env.RestoreStdLog()
		}
	})

	t.Run("restore without redirect", func(t *testing.T) {
		env := &LocalEnv{Log: zaptest.NewLogger(t)}
		env.RestoreStdLog()
	})

	t.Run("nil logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}
