// Package klog pins the logger used across the core and cmd/ binaries to a
// single convention: context-first calls against github.com/seekerror/logw,
// the way pkg/engine centralizes logging around a shared context in the
// teacher repo. It adds nothing of its own — no buffering, no levels beyond
// logw's — it only gives the rest of the module one import to depend on.
package klog

import (
	"context"

	"github.com/seekerror/logw"
)

func Debugf(ctx context.Context, format string, args ...interface{}) {
	logw.Debugf(ctx, format, args...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	logw.Infof(ctx, format, args...)
}

func Warningf(ctx context.Context, format string, args ...interface{}) {
	logw.Warningf(ctx, format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	logw.Errorf(ctx, format, args...)
}

func Exitf(ctx context.Context, format string, args ...interface{}) {
	logw.Exitf(ctx, format, args...)
}
