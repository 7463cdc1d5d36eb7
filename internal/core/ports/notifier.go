package ports

// Notifier surfaces stage failures to the developer.
//
//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks
type Notifier interface {
	// Notify reports a failure with a short title such as "SCSS Error".
	Notify(title, message string)
}
