// Command notekeep runs the notekeep HTTP server.
package main

import (
	"context"

	"github.com/dalemusser/notekeep/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	app.Run(context.Background(), bootstrap.Hooks)
}
