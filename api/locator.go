package api

// Locator represents a way to find element(s) on a page at any moment.
type Locator interface {
	// All returns a locator for every element currently matching.
	All() ([]Locator, error)
	// And matches elements that match both this locator and other.
	And(other Locator) Locator
	// Check element using locator's selector with strict mode on.
	Check() error
	// Click on an element using locator's selector with strict mode on.
	Click(opts *ClickOptions) error
	// Count returns the number of elements currently matching.
	Count() (int, error)
	// Dblclick double clicks on an element using locator's selector with strict mode on.
	Dblclick() error
	// Describe returns a locator that reports itself under description.
	Describe(description string) Locator
	// Fill out the element using locator's selector with strict mode on.
	Fill(value string) error
	Filter(opts *FilterOptions) Locator
	First() Locator
	Focus() error
	// GetAttribute returns the attribute value, or "" when it is not set.
	GetAttribute(name string) (string, error)
	GetByLabel(text string) Locator
	GetByRole(role string, opts *GetByRoleOptions) Locator
	GetByTestID(testID string) Locator
	GetByText(text string, opts *GetByTextOptions) Locator
	Hover() error
	InnerText() (string, error)
	InputValue() (string, error)
	IsChecked() (bool, error)
	IsEnabled() (bool, error)
	IsVisible() (bool, error)
	Last() Locator
	Locator(selector string, opts *LocatorOptions) Locator
	Nth(index int) Locator
	// Or matches elements that match either this locator or other.
	Or(other Locator) Locator
	Page() Page
	Press(key string) error
	String() string
	TextContent() (string, error)
	Uncheck() error
}
