package api

import "time"

// BrowserContextOptions configures a new browser context.
type BrowserContextOptions struct {
	BaseURL          string            `json:"baseURL"`
	ExtraHTTPHeaders map[string]string `json:"extraHTTPHeaders"`
	Locale           string            `json:"locale"`
	UserAgent        string            `json:"userAgent"`
	Viewport         *Viewport         `json:"viewport"`
}

// Viewport is the size of the page's visible area.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NavigationOptions configures Goto and Reload.
type NavigationOptions struct {
	Timeout   time.Duration `json:"timeout"`
	WaitUntil string        `json:"waitUntil"`
}

// LocatorOptions narrows a locator at creation time.
type LocatorOptions struct {
	HasText string  `json:"hasText"`
	Has     Locator `json:"has"`
	HasNot  Locator `json:"hasNot"`
}

// FilterOptions narrows an existing locator.
type FilterOptions struct {
	HasText    string  `json:"hasText"`
	HasNotText string  `json:"hasNotText"`
	Has        Locator `json:"has"`
	HasNot     Locator `json:"hasNot"`
}

// GetByRoleOptions configures GetByRole.
type GetByRoleOptions struct {
	Name  string `json:"name"`
	Exact bool   `json:"exact"`
}

// GetByTextOptions configures GetByText.
type GetByTextOptions struct {
	Exact bool `json:"exact"`
}

// ClickOptions configures clicks.
type ClickOptions struct {
	Button     string        `json:"button"`
	ClickCount int           `json:"clickCount"`
	Timeout    time.Duration `json:"timeout"`
}

// RequestOptions configures an APIRequestContext call.
type RequestOptions struct {
	Method           string            `json:"method"`
	Headers          map[string]string `json:"headers"`
	Params           map[string]string `json:"params"`
	Data             any               `json:"data"`
	Timeout          time.Duration     `json:"timeout"`
	FailOnStatusCode bool              `json:"failOnStatusCode"`
}
