// Package xcontext holds context helpers shared by the server and its
// background work.
package xcontext

import "context"

// Detach returns a context that keeps all the values of ctx but is never
// cancelled and has no deadline. Use it for work that must outlive the request
// that started it, such as progress reports and log delivery.
func Detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
