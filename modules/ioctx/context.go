// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ioctx

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Context is acquired once at the start of a bulk repository operation
// (commit, checkout) and released at the end of every exit path, including
// failures (spec §4.2 "Resource scoping"). It caches filesystem-family
// classification per directory and owns the bounded task pools, the access
// checker and the trash dispatcher.
type Context struct {
	log *logrus.Logger

	mu      sync.Mutex
	classBy map[string]Family

	// TrashFunc overrides the platform trash helper; tests and embedders
	// that do not want a real recycle-bin round trip can substitute one
	// (spec §9 "the trash executor must be a parameter of the I/O context,
	// not a process global").
	TrashFunc func(paths []string) error
}

// Option configures a Context at construction time.
type Option func(*Context)

// WithLogger attaches a structured logger (spec §10.1 ambient logging;
// teacher dependency github.com/sirupsen/logrus).
func WithLogger(l *logrus.Logger) Option {
	return func(c *Context) { c.log = l }
}

// WithTrashFunc installs a custom trash dispatcher, bypassing the
// platform helper (spec §9).
func WithTrashFunc(fn func(paths []string) error) Option {
	return func(c *Context) { c.TrashFunc = fn }
}

// New acquires a fresh I/O context. Callers must Close it when the bulk
// operation finishes.
func New(opts ...Option) *Context {
	c := &Context{classBy: make(map[string]Family)}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = defaultLogger()
	}
	return c
}

func defaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Close invalidates the context. Classification caches are dropped so a
// later operation never trusts a stale filesystem-family verdict for a
// mount point that may have been remounted in between.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.classBy = nil
}

// Classify returns the filesystem Family containing path, caching the
// result for the lifetime of the Context.
func (c *Context) Classify(path string) Family {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.classBy == nil {
		c.classBy = make(map[string]Family)
	}
	if f, ok := c.classBy[path]; ok {
		return f
	}
	f, err := classifyPath(path)
	if err != nil {
		c.log.WithFields(logrus.Fields{"component": "ioctx", "path": path}).
			WithError(err).Warn("classify filesystem failed, assuming other")
		f = Other
	}
	c.classBy[path] = f
	return f
}
