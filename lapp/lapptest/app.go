// Package lapptest provides test helpers for lapp applications.
//
// It constructs the identical DI graph as [lapp.NewApp] but uses
// [fxtest.App], which fails the test immediately on DI errors:
//
//	lapptest.SetBaseEnv(t)
//	app := lapptest.New[Env](t, routing)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package lapptest

import (
	"testing"

	"github.com/advdv/olat/lapp"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing lapp applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [lapp.NewApp].
func New[E lapp.Environment](t testing.TB, routing any, opts ...lapp.Option) *App {
	return &App{App: fxtest.New(t, lapp.FxOptions[E](routing, opts...)...)}
}
