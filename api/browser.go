// Package api contains the capability interfaces of the browser automation
// handles that steplog knows how to wrap.
package api

// Browser is the public interface of a connected browser.
type Browser interface {
	BrowserType() BrowserType
	Close() error
	Contexts() []BrowserContext
	IsConnected() bool
	NewContext(opts *BrowserContextOptions) (BrowserContext, error)
	NewPage(opts *BrowserContextOptions) (Page, error)
	Version() string
}
