package notify

// Notifier surfaces blocking user-facing notifications and yes/no prompts.
type Notifier interface {
	Alert(message string)
	Confirm(message string) bool
}
