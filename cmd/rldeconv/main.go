// Command rldeconv convolves and deconvolves raw float32 images and volumes.
//
// Usage:
//
//	rldeconv selftest --width 64 --height 64
//	rldeconv psf --dims 64,64,32 --sigma 2,2,4 --out psf.raw
//	rldeconv convolve --in img.raw --kernel psf.raw --dims 64,64,32 --out blurred.raw
//	rldeconv deconvolve --in blurred.raw --psf psf.raw --dims 64,64,32 -n 50 --out est.raw
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cwbudde/algo-deconv/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.Execute(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}
