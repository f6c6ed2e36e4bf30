package api

// Page is the public interface of a single tab.
type Page interface {
	Click(selector string, opts *ClickOptions) error
	Close() error
	Content() (string, error)
	Context() BrowserContext
	Fill(selector string, value string) error
	GetByLabel(text string) Locator
	GetByRole(role string, opts *GetByRoleOptions) Locator
	GetByTestID(testID string) Locator
	GetByText(text string, opts *GetByTextOptions) Locator
	Goto(url string, opts *NavigationOptions) error
	Locator(selector string, opts *LocatorOptions) Locator
	Reload(opts *NavigationOptions) error
	Request() APIRequestContext
	Screenshot() ([]byte, error)
	Title() (string, error)
	URL() string
	WaitForResponse(urlSubstr string) Pending
}
