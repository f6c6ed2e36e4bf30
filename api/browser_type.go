package api

// BrowserType is the public interface of a browser engine family.
type BrowserType interface {
	Name() string
}
